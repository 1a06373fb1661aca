// Package paths locates focus's state and config directories.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirEnvVar overrides the default state directory.
const StateDirEnvVar = "FOCUS_STATE_DIR"

// GlobalConfigFileName is the global config file inside DefaultConfigDir.
const GlobalConfigFileName = "config.toml"

const appDir = "focus"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns the default focus state directory: FOCUS_STATE_DIR,
// then $XDG_STATE_HOME/focus, then ~/.local/state/focus.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv(StateDirEnvVar); dir != "" {
		return dir, nil
	}
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// DefaultConfigDir returns the directory holding the global config file:
// $XDG_CONFIG_HOME/focus or ~/.config/focus.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GlobalConfigFile returns the path of the global config file.
func GlobalConfigFile() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, GlobalConfigFileName), nil
}

func xdgDir(envVar string, homeRelative ...string) (string, error) {
	if base := os.Getenv(envVar); filepath.IsAbs(base) {
		return filepath.Join(base, appDir), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeRelative...)
	return filepath.Join(append(parts, appDir)...), nil
}

// WorkingDir returns the current working directory.
func WorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// ResolveWithDefault returns override when set, otherwise the result of fallback.
func ResolveWithDefault(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return fallback()
}

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
