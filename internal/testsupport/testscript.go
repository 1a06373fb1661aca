package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/focus/task"
)

type buildResult struct {
	path string
	err  error
}

var (
	buildMu sync.Mutex
	builds  = map[string]buildResult{}
)

// BuildFocus builds the focus binary once per test process and returns its
// path.
func BuildFocus(t testing.TB) string {
	t.Helper()
	return buildBinary(t, "focus", "./cmd/focus")
}

func buildBinary(t testing.TB, name, pkg string) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	result, ok := builds[pkg]
	if !ok {
		result.path, result.err = goBuild(name, pkg)
		builds[pkg] = result
	}
	if result.err != nil {
		t.Fatalf("%v", result.err)
	}
	return result.path
}

func goBuild(name, pkg string) (string, error) {
	moduleRoot, err := findModuleRoot()
	if err != nil {
		return "", err
	}
	binDir, err := os.MkdirTemp("", name+"-bin-")
	if err != nil {
		return "", err
	}

	path := filepath.Join(binDir, name)
	cmd := exec.Command("go", "build", "-o", path, pkg)
	cmd.Dir = moduleRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("build %s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return path, nil
}

// Params returns testscript parameters for the scripts in dir: $FOCUS
// points at a freshly built binary, HOME at an empty home directory, and
// the envset and taskid commands are available.
func Params(t testing.TB, dir string) testscript.Params {
	return testscript.Params{
		Dir: dir,
		Setup: func(env *testscript.Env) error {
			return SetupScriptEnv(t, env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset": CmdEnvSet,
			"taskid": CmdTaskID,
		},
	}
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("FOCUS", BuildFocus(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	for _, name := range homeEnv {
		env.Setenv(name, "")
	}
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by title in the output of "focus list --json" and
// stores its ID in an env var. An optional fourth argument keeps only that
// many leading characters, for exercising prefix lookup.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 && len(args) != 4 {
		ts.Fatalf("usage: taskid FILE TITLE VAR [PREFIX-LEN]")
	}

	var items []task.Task
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	prefixLen := 0
	if len(args) == 4 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n <= 0 {
			ts.Fatalf("invalid prefix length %q", args[3])
		}
		prefixLen = n
	}

	for _, item := range items {
		if item.Title != args[1] {
			continue
		}
		id := item.ID
		if prefixLen > 0 && prefixLen < len(id) {
			id = id[:prefixLen]
		}
		ts.Setenv(args[2], id)
		return
	}

	ts.Fatalf("task with title %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
