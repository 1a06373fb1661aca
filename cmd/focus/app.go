package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/activity"
	"github.com/amonks/focus/internal/config"
	"github.com/amonks/focus/internal/paths"
	"github.com/amonks/focus/internal/state"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

// app bundles what every command needs: config, the state directory and
// an open tracker.
type app struct {
	cfg      *config.Config
	stateDir string
	tracker  *tracker.Tracker
	script   *scriptNotifier
}

func loadConfig() (*config.Config, string, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}

func resolveStateDir(cfg *config.Config) (string, error) {
	dir, err := cfg.StateDir()
	if err != nil {
		return "", err
	}
	if err := paths.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("state dir: %w", err)
	}
	return dir, nil
}

type appOptions struct {
	// printNotifications writes notifications to the command's stdout.
	printNotifications bool

	// notifiers receive notifications after the on-finish script.
	notifiers []tracker.Notifier
}

// openApp loads config and state and opens a tracker. The configured
// on-finish script always receives notifications.
func openApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, cwd, err := loadConfig()
	if err != nil {
		return nil, err
	}
	stateDir, err := resolveStateDir(cfg)
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "focus: ", log.LstdFlags)

	store, err := state.OpenStore(cfg.Driver(), stateDir)
	if err != nil {
		return nil, err
	}
	events, err := activity.OpenLog(activity.Path(stateDir))
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	script := newScriptNotifier(cwd, cfg.Notify.OnFinish, logger)
	notifiers := append(tracker.Notifiers{script}, opts.notifiers...)
	if opts.printNotifications {
		notifiers = append(notifiers, tracker.NewWriterNotifier(cmd.OutOrStdout(), cfg.Notify.Bell))
	}
	tr, err := tracker.Open(cmd.Context(), tracker.Options{
		Store:           store,
		Activity:        events,
		Notifier:        notifiers,
		Logger:          logger,
		DefaultMinutes:  cfg.DefaultMinutes(),
		CapacityMinutes: cfg.DailyMinutes(task.DefaultCapacityMinutes),
	})
	if err != nil {
		return nil, errors.Join(err, events.Close(), store.Close())
	}
	return &app{cfg: cfg, stateDir: stateDir, tracker: tr, script: script}, nil
}

// Close waits for pending scripts and releases the tracker.
func (a *app) Close() error {
	a.script.Wait()
	return a.tracker.Close()
}
