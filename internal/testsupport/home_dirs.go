package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amonks/focus/internal/paths"
)

// homeEnv lists the variables that point focus away from HOME. They are
// cleared so tests only see the temporary home.
var homeEnv = []string{paths.StateDirEnvVar, "XDG_STATE_HOME", "XDG_CONFIG_HOME"}

// EnsureHomeDirs creates the default state and config directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	for _, dir := range []string{
		filepath.Join(homeDir, ".local", "state", "focus"),
		filepath.Join(homeDir, ".config", "focus"),
	} {
		if err := paths.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// SetupTestHome creates a temp home directory with state and config dirs,
// points HOME at it and clears the directory overrides.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range homeEnv {
		t.Setenv(name, "")
	}
	return homeDir
}

// WriteGlobalConfig writes the global config file under homeDir.
func WriteGlobalConfig(t testing.TB, homeDir, content string) {
	t.Helper()

	path := filepath.Join(homeDir, ".config", "focus", paths.GlobalConfigFileName)
	if err := paths.EnsureDir(filepath.Dir(path)); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write global config: %v", err)
	}
}
