package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/internal/tui"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/server"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Count down running timers in the foreground",
	Long: `Count down running timers in the foreground.

Notifications are printed as timers finish. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive view",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and the web view",
	Long: `Serve the JSON API and the web view.

The address defaults to 127.0.0.1 on server.port from focus.toml (8089).
Timers count down while the server runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(runCmd, tuiCmd, serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := openApp(cmd, appOptions{printNotifications: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if running, ok := runningTask(a.tracker); ok {
		fmt.Fprintf(out, "Running %s (%s left)\n", running.Title, ui.FormatClock(running.TimeLeft))
	} else {
		fmt.Fprintln(out, "No timer is running. Start one with: focus timer <id>")
	}

	err = a.tracker.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	notifications := &tracker.Collector{}
	a, err := openApp(cmd, appOptions{notifiers: []tracker.Notifier{notifications}})
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), a.tracker, notifications)
}

func runServe(cmd *cobra.Command, args []string) error {
	collector := tracker.NewCollector(tracker.DefaultCollectorLimit)
	notifiers := []tracker.Notifier{
		collector,
		tracker.NewWriterNotifier(cmd.ErrOrStderr(), false),
	}
	a, err := openApp(cmd, appOptions{notifiers: notifiers})
	if err != nil {
		return err
	}
	defer a.Close()

	addr, err := server.ResolveAddr(a.cfg, serveAddr)
	if err != nil {
		return err
	}
	srv, err := server.NewServer(server.ServerOptions{
		Tracker:       a.tracker,
		Notifications: collector,
		Logger:        log.New(cmd.ErrOrStderr(), "focus serve: ", log.LstdFlags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Web view: http://%s/web/\n", addr)
	return srv.Serve(cmd.Context(), addr)
}

func runningTask(tr *tracker.Tracker) (task.Task, bool) {
	for _, item := range tr.Tasks() {
		if item.TimerRunning && !item.Completed {
			return item, true
		}
	}
	return task.Task{}, false
}
