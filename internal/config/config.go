// Package config handles loading focus.toml configuration files.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/amonks/focus/internal/paths"
)

// ProjectFileName is the per-directory config file.
const ProjectFileName = "focus.toml"

// DefaultPort is the server port when none is configured.
const DefaultPort = 8089

// Config represents the focus.toml configuration file.
type Config struct {
	Timer    Timer    `toml:"timer"`
	Capacity Capacity `toml:"capacity"`
	Storage  Storage  `toml:"storage"`
	Notify   Notify   `toml:"notify"`
	Server   Server   `toml:"server"`
}

// Timer contains timer defaults.
type Timer struct {
	// DefaultMinutes is the duration used when a task names none.
	DefaultMinutes int `toml:"default-minutes"`
}

// Capacity contains the daily planning budget.
type Capacity struct {
	// DailyMinutes is the budget compared against remaining work.
	DailyMinutes int `toml:"daily-minutes"`
}

// Storage selects where state is persisted.
type Storage struct {
	// Driver is "file" (default) or "sqlite".
	Driver string `toml:"driver"`
	// Dir overrides the state directory.
	Dir string `toml:"dir"`
}

// Notify configures how finished timers are announced.
type Notify struct {
	// Bell rings the terminal bell on notifications.
	Bell bool `toml:"bell"`

	// OnFinish is a script to run when a task's timer runs out.
	// Can include a shebang line; defaults to bash if not specified.
	OnFinish string `toml:"on-finish"`
}

// Server configures focus serve.
type Server struct {
	Port int `toml:"port"`
}

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigFile()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	return merged, nil
}

// DefaultMinutes returns the configured default task duration, or 0 when
// unset or invalid.
func (c *Config) DefaultMinutes() int {
	if c == nil || c.Timer.DefaultMinutes <= 0 {
		return 0
	}
	return c.Timer.DefaultMinutes
}

// DailyMinutes returns the configured capacity budget, or fallback.
func (c *Config) DailyMinutes(fallback int) int {
	if c == nil || c.Capacity.DailyMinutes <= 0 {
		return fallback
	}
	return c.Capacity.DailyMinutes
}

// StateDir returns the state directory. FOCUS_STATE_DIR wins over the
// config, which wins over the default location.
func (c *Config) StateDir() (string, error) {
	if dir := os.Getenv(paths.StateDirEnvVar); dir != "" {
		return dir, nil
	}
	override := ""
	if c != nil {
		override = expandHome(c.Storage.Dir)
	}
	return paths.ResolveWithDefault(override, paths.DefaultStateDir)
}

// Driver returns the storage driver name.
func (c *Config) Driver() string {
	if c == nil {
		return ""
	}
	return c.Storage.Driver
}

// Port returns the configured server port.
func (c *Config) Port() int {
	if c == nil || c.Server.Port <= 0 {
		return DefaultPort
	}
	return c.Server.Port
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Timer.DefaultMinutes = mergeValue(projectMeta.IsDefined("timer", "default-minutes"), projectCfg.Timer.DefaultMinutes, globalCfg.Timer.DefaultMinutes)
	merged.Capacity.DailyMinutes = mergeValue(projectMeta.IsDefined("capacity", "daily-minutes"), projectCfg.Capacity.DailyMinutes, globalCfg.Capacity.DailyMinutes)
	merged.Storage.Driver = mergeString(projectMeta.IsDefined("storage", "driver"), projectCfg.Storage.Driver, globalCfg.Storage.Driver)
	merged.Storage.Dir = mergeString(projectMeta.IsDefined("storage", "dir"), projectCfg.Storage.Dir, globalCfg.Storage.Dir)
	merged.Notify.Bell = mergeValue(projectMeta.IsDefined("notify", "bell"), projectCfg.Notify.Bell, globalCfg.Notify.Bell)
	merged.Notify.OnFinish = mergeString(projectMeta.IsDefined("notify", "on-finish"), projectCfg.Notify.OnFinish, globalCfg.Notify.OnFinish)
	merged.Server.Port = mergeValue(projectMeta.IsDefined("server", "port"), projectCfg.Server.Port, globalCfg.Server.Port)

	return &merged
}

func mergeValue[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(projectDefined, projectValue, globalValue))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := paths.HomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// RunScript executes a script in the given directory with env appended to
// the process environment.
// If the script starts with a shebang (#!), that interpreter is used.
// Otherwise, the script is run with /bin/bash.
func RunScript(dir, script string, env ...string) error {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}

	var interpreter string
	var scriptBody string

	if strings.HasPrefix(script, "#!") {
		// Extract shebang line
		lines := strings.SplitN(script, "\n", 2)
		interpreter = strings.TrimPrefix(lines[0], "#!")
		interpreter = strings.TrimSpace(interpreter)
		if len(lines) > 1 {
			scriptBody = lines[1]
		}
	} else {
		interpreter = "/bin/bash"
		scriptBody = script
	}

	// Parse interpreter and args (e.g., "/usr/bin/env python3" or "/bin/bash -e")
	parts := strings.Fields(interpreter)
	if len(parts) == 0 {
		return fmt.Errorf("empty interpreter in shebang")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = strings.NewReader(scriptBody)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
