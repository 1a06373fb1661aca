package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/internal/listflags"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/task"
)

var addCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a task",
	Long: `Add a task from free text.

A duration such as "45min", "10 m" or "30分" sets the countdown; without one
the default duration is used. Category and difficulty are inferred from the
text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "Toggle whether tasks are completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComplete,
}

var timerCmd = &cobra.Command{
	Use:   "timer <id>",
	Short: "Start or pause a task's countdown",
	Long: `Start or pause a task's countdown.

Starting a timer pauses any other running timer. Countdowns advance while
"focus run", "focus tui" or "focus serve" is running.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimer,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>...",
	Short: "Show how text would be turned into a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var (
	addMinutes   int
	addQuiet     bool
	listAll      bool
	parseMinutes int
)

func init() {
	rootCmd.AddCommand(addCmd, listCmd, completeCmd, timerCmd, deleteCmd, parseCmd)

	addCmd.Flags().IntVarP(&addMinutes, "minutes", "m", 0, "Duration in minutes (overrides the text)")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "Print only the new task's ID")
	listflags.AddAllFlag(listCmd, &listAll)
	parseCmd.Flags().IntVarP(&parseMinutes, "minutes", "m", 0, "Duration in minutes (overrides the text)")
	listflags.AddJSONFlag(&jsonOutput, addCmd, listCmd, parseCmd)
	addMinutesFlagAliases(addCmd, parseCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if hasChangedFlags(cmd, "minutes") {
		if err := task.ValidateMinutes(addMinutes); err != nil {
			return err
		}
	}
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.tracker.AddWithDuration(cmd.Context(), strings.Join(args, " "), addMinutes)
	if err != nil {
		return err
	}
	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), created)
	}
	if addQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), created.ID)
		return nil
	}
	prefixLen := ui.PrefixLength(taskIDPrefixLengths(a.tracker.Tasks()), created.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", ui.HighlightID(created.ID, prefixLen), describeTask(created))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	all := a.tracker.Tasks()
	tasks := all
	if !listAll {
		tasks = make([]task.Task, 0, len(all))
		for _, item := range all {
			if !item.Completed {
				tasks = append(tasks, item)
			}
		}
	}

	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), tasks)
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, taskEmptyListMessage(len(all), listAll))
		return nil
	}
	printTaskTable(out, tasks, taskIDPrefixLengths(all), time.Now())
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.LabelValue("Capacity", ui.CapacityText(a.tracker.Capacity())))
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{printNotifications: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	for _, id := range args {
		updated, err := a.tracker.ToggleComplete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if updated.Completed {
			fmt.Fprintf(out, "Completed %s\n", updated.Title)
		} else {
			fmt.Fprintf(out, "Reopened %s\n", updated.Title)
		}
	}
	return nil
}

func runTimer(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	updated, err := a.tracker.ToggleTimer(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case updated.Completed:
		fmt.Fprintf(out, "%s is already completed\n", updated.Title)
	case updated.TimerRunning:
		fmt.Fprintf(out, "Started %s (%s left)\n", updated.Title, ui.FormatClock(updated.TimeLeft))
	default:
		fmt.Fprintf(out, "Paused %s (%s left)\n", updated.Title, ui.FormatClock(updated.TimeLeft))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range args {
		removed, err := a.tracker.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", removed.Title)
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	draft := task.Parse(strings.Join(args, " "), task.ParseOptions{DefaultMinutes: cfg.DefaultMinutes()})
	if hasChangedFlags(cmd, "minutes") {
		if err := task.ValidateMinutes(parseMinutes); err != nil {
			return err
		}
		draft = draft.WithDuration(parseMinutes)
	}
	if jsonOutput {
		return encodeJSON(cmd.OutOrStdout(), draft)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.LabelValue("Title", draft.Title))
	fmt.Fprintln(out, ui.LabelValue("Duration", ui.FormatMinutes(draft.DurationMinutes*60)))
	fmt.Fprintln(out, ui.LabelValue("Category", ui.CategoryText(draft.Category)))
	fmt.Fprintln(out, ui.LabelValue("Difficulty", draft.Difficulty.Name()+" "+ui.DifficultyText(draft.Difficulty)))
	fmt.Fprintln(out, ui.LabelValue("Reward", fmt.Sprintf("%d XP", draft.RewardPoints)))
	return nil
}
