package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/focus/task"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Key     = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted   = lipgloss.NewStyle().Foreground(cMuted)
	Good    = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn    = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad     = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold    = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Running = lipgloss.NewStyle().Bold(true).Foreground(cGood)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

// LabelValue renders "label: value" with a styled label.
func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StatusText renders a task's state: done, running or open.
func StatusText(t task.Task) string {
	switch {
	case t.Completed:
		return Good.Render("done")
	case t.TimerRunning:
		return Running.Render("running")
	default:
		return Muted.Render("open")
	}
}

// ClockText renders the time left, highlighted when urgent.
func ClockText(t task.Task) string {
	clock := FormatClock(t.TimeLeft)
	if t.Urgent() {
		return Bad.Render(clock)
	}
	return clock
}

// CategoryText renders a category with its color.
func CategoryText(c task.Category) string {
	switch c {
	case task.CategoryWork:
		return Key.Render(string(c))
	case task.CategoryStudy:
		return Title.Render(string(c))
	case task.CategoryHealth:
		return Good.Render(string(c))
	default:
		return Muted.Render(string(c))
	}
}

// DifficultyText renders a tier as stars.
func DifficultyText(d task.Difficulty) string {
	stars := ""
	for i := task.DifficultyEasy; i <= d && i <= task.DifficultyHard; i++ {
		stars += "★"
	}
	return Gold.Render(stars)
}

// CapacityText summarizes a load, warning when over budget.
func CapacityText(load task.Load) string {
	text := CapacitySummary(load)
	if load.Over() {
		return Warn.Render(text)
	}
	return text
}

// CapacitySummary is the unstyled form of CapacityText.
func CapacitySummary(load task.Load) string {
	text := fmt.Sprintf("%s planned of %s (%d%%)", FormatMinutes(load.RemainingSeconds), FormatMinutes(load.BudgetSeconds), load.Percent())
	if load.Over() {
		text += ", over capacity"
	}
	return text
}
