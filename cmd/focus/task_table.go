package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/focus/internal/age"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/task"
)

// printTaskTable prints tasks in a table format.
func printTaskTable(w io.Writer, tasks []task.Task, prefixLengths map[string]int, now time.Time) {
	fmt.Fprint(w, formatTaskTable(tasks, prefixLengths, ui.HighlightID, now))
}

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "LEFT", "CATEGORY", "DIFF", "XP", "AGE", "TITLE"}, len(tasks))

	if prefixLengths == nil {
		prefixLengths = taskIDPrefixLengths(tasks)
	}

	for _, t := range tasks {
		prefixLen := prefixLengths[strings.ToLower(t.ID)]
		builder.AddRow(
			highlight(t.ID, prefixLen),
			ui.StatusText(t),
			ui.ClockText(t),
			ui.CategoryText(t.Category),
			ui.DifficultyText(t.Difficulty),
			strconv.Itoa(t.RewardPoints),
			formatTaskAge(t, now),
			ui.TruncateTableCell(t.Title),
		)
	}

	return builder.String()
}

func taskIDPrefixLengths(tasks []task.Task) map[string]int {
	return task.NewIDIndex(tasks).PrefixLengths()
}

func formatTaskAge(item task.Task, now time.Time) string {
	value, ok := age.Of(item.CreatedAt, item.CompletedAt, now)
	if !ok {
		return "-"
	}
	return ui.FormatDurationShort(value)
}

// describeTask renders a one-line summary such as
// "Report (45m, Work, hard, 135 XP)".
func describeTask(t task.Task) string {
	return fmt.Sprintf("%s (%s, %s, %s, %d XP)", t.Title, ui.FormatMinutes(t.InitialTime), t.Category, t.Difficulty.Name(), t.RewardPoints)
}
