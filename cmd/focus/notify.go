package main

import (
	"log"
	"strconv"
	"sync"

	"github.com/amonks/focus/internal/config"
	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/tracker"
)

// scriptNotifier runs the configured on-finish script when a timer runs
// out. Scripts run in the background; Wait blocks until they exit.
type scriptNotifier struct {
	dir    string
	script string
	logger *log.Logger
	run    func(dir, script string, env ...string) error

	wg sync.WaitGroup
}

func newScriptNotifier(dir, script string, logger *log.Logger) *scriptNotifier {
	return &scriptNotifier{dir: dir, script: script, logger: logger, run: config.RunScript}
}

func (n *scriptNotifier) Notify(note tracker.Notification) {
	if n == nil || internalstrings.IsBlank(n.script) || note.Kind != tracker.KindTimerFinished {
		return
	}
	env := notificationEnv(note)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.run(n.dir, n.script, env...); err != nil && n.logger != nil {
			n.logger.Printf("on-finish script for %s: %v", note.TaskID, err)
		}
	}()
}

func (n *scriptNotifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func notificationEnv(note tracker.Notification) []string {
	return []string{
		"FOCUS_EVENT=" + string(note.Kind),
		"FOCUS_TASK_ID=" + note.TaskID,
		"FOCUS_TASK_TITLE=" + note.Title,
		"FOCUS_POINTS=" + strconv.Itoa(note.Points),
		"FOCUS_MESSAGE=" + note.String(),
	}
}
