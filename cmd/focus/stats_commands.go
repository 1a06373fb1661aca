package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/activity"
	"github.com/amonks/focus/internal/listflags"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, experience and streak",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Pick a random quick task",
	Long: `Pick a random open task with at most 15 minutes left.

Use it when you need a small win to get going.`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Compare remaining work against the daily budget",
	Long: `Compare remaining work against the daily budget.

The budget comes from capacity.daily-minutes in focus.toml. Pass --budget to
see the load against a different budget without changing the config.`,
	Args: cobra.NoArgs,
	RunE: runCapacity,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the activity log",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	capacityBudget int
	historyLimit   int
)

func init() {
	rootCmd.AddCommand(statsCmd, suggestCmd, capacityCmd, historyCmd)

	capacityCmd.Flags().IntVar(&capacityBudget, "budget", 0, "Budget in minutes")
	listflags.AddJSONFlag(&jsonOutput, statsCmd, suggestCmd, capacityCmd, historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Show at most this many events (0 for all)")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.tracker.Stats()
	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.LabelValue("Level", stats.Level))
	fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d / %d", stats.CurrentXP, stats.NextLevelXP)))
	fmt.Fprintln(out, ui.LabelValue("Progress", ui.ProgressBar(stats.Progress(), 20)))
	fmt.Fprintln(out, ui.LabelValue("Streak", stats.Streak))
	return nil
}

type suggestResult struct {
	Found bool       `json:"found"`
	Task  *task.Task `json:"task,omitempty"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	picked, ok := a.tracker.Suggest()
	if jsonOutput {
		result := suggestResult{Found: ok}
		if ok {
			result.Task = &picked
		}
		return encodeJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "No quick tasks available. Try a task of 15 minutes or less.")
		return nil
	}
	prefixLen := ui.PrefixLength(taskIDPrefixLengths(a.tracker.Tasks()), picked.ID)
	fmt.Fprintf(out, "Try %s %s (%s left)\n", ui.HighlightID(picked.ID, prefixLen), picked.Title, ui.FormatClock(picked.TimeLeft))
	return nil
}

type capacityResult struct {
	Minutes  int       `json:"minutes"`
	Capacity task.Load `json:"capacity"`
}

func runCapacity(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if hasChangedFlags(cmd, "budget") {
		if err := a.tracker.SetCapacity(capacityBudget); err != nil {
			return err
		}
	}

	load := a.tracker.Capacity()
	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), capacityResult{Minutes: a.tracker.CapacityMinutes(), Capacity: load})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.LabelValue("Capacity", ui.CapacityText(load)))
	fmt.Fprintln(out, ui.LabelValue("Open tasks", load.OpenTasks))
	if !load.Over() {
		fmt.Fprintln(out, ui.LabelValue("Free", ui.FormatMinutes(load.FreeSeconds())))
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	stateDir, err := resolveStateDir(cfg)
	if err != nil {
		return err
	}
	events, err := activity.Snapshot(activity.Path(stateDir))
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(events) > historyLimit {
		events = events[len(events)-historyLimit:]
	}

	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), events)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No activity yet.")
		return nil
	}
	fmt.Fprint(out, formatHistoryTable(events, time.Now()))
	return nil
}

func formatHistoryTable(events []activity.Event, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"WHEN", "EVENT", "TASK", "DATA"}, len(events))
	for _, event := range events {
		taskID := event.TaskID
		if taskID == "" {
			taskID = "-"
		}
		builder.AddRow(
			ui.FormatTimeAgo(event.Time, now),
			event.Name,
			taskID,
			ui.TruncateTableCell(event.Data),
		)
	}
	return builder.String()
}

