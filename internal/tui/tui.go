// Package tui is the interactive terminal front end for a tracker.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

const progressWidth = 12

type model struct {
	ctx           context.Context
	tracker       *tracker.Tracker
	notifications *tracker.Collector

	width  int
	height int

	tasks    []task.Task
	selected int
	adding   bool
	input    textinput.Model

	status      string
	statusLevel statusLevel
}

type tickMsg struct{}

type notificationsMsg []tracker.Notification

// Run starts the TUI. notifications should be the Collector the tracker
// notifies; it may be nil.
func Run(ctx context.Context, tr *tracker.Tracker, notifications *tracker.Collector) error {
	if tr == nil {
		return fmt.Errorf("tracker is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, tr, notifications), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, tr *tracker.Tracker, notifications *tracker.Collector) model {
	input := textinput.New()
	input.Placeholder = "Report 45min"
	input.Prompt = "> "
	input.CharLimit = task.MaxTitleLength

	m := model{
		ctx:           ctx,
		tracker:       tr,
		notifications: notifications,
		input:         input,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForNotification())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tracker.DefaultTickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m model) waitForNotification() tea.Cmd {
	if m.notifications == nil {
		return nil
	}
	collector := m.notifications
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-collector.Ready():
			return notificationsMsg(collector.Drain())
		case <-ctx.Done():
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case tickMsg:
		if err := m.tracker.Tick(m.ctx); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, tickCmd()
	case notificationsMsg:
		if len(msg) > 0 {
			m.setInfo(formatNotifications(msg))
		}
		return m, m.waitForNotification()
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		text := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		if internalstrings.IsBlank(text) {
			return m, nil
		}
		added, err := m.tracker.Add(m.ctx, text)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.refresh()
		m.selected = len(m.tasks) - 1
		m.setInfo(fmt.Sprintf("Added %s (%s, %s)", added.Title, ui.FormatClock(added.InitialTime), added.Category))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
	case "a", "n":
		m.adding = true
		cmd := m.input.Focus()
		return m, cmd
	case "enter", " ", "t":
		if current, ok := m.current(); ok {
			toggled, err := m.tracker.ToggleTimer(m.ctx, current.ID)
			m.afterAction(err)
			if err == nil && current.Completed {
				m.setInfo("Completed tasks have no timer")
			} else if err == nil && toggled.TimerRunning {
				m.setInfo("Started " + toggled.Title)
			} else if err == nil {
				m.setInfo("Paused " + toggled.Title)
			}
		}
	case "x", "c":
		if current, ok := m.current(); ok {
			_, err := m.tracker.ToggleComplete(m.ctx, current.ID)
			m.afterAction(err)
		}
	case "d", "delete":
		if current, ok := m.current(); ok {
			removed, err := m.tracker.Delete(m.ctx, current.ID)
			m.afterAction(err)
			if err == nil {
				m.setInfo("Deleted " + removed.Title)
			}
		}
	case "s":
		suggested, ok := m.tracker.Suggest()
		if !ok {
			m.setInfo("No short tasks to suggest")
			break
		}
		for i, item := range m.tasks {
			if item.ID == suggested.ID {
				m.selected = i
			}
		}
		m.setInfo(fmt.Sprintf("Try %s (%s left)", suggested.Title, ui.FormatClock(suggested.TimeLeft)))
	case "b":
		next := nextCapacity(m.tracker.CapacityMinutes())
		if err := m.tracker.SetCapacity(next); err != nil {
			m.setError(err)
			break
		}
		m.setInfo("Daily capacity " + ui.FormatMinutes(next*60))
	}
	return m, nil
}

// nextCapacity cycles through the offered budgets.
func nextCapacity(current int) int {
	options := task.CapacityOptions()
	for i, option := range options {
		if option == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (m *model) afterAction(err error) {
	if err != nil {
		m.setError(err)
	}
	m.refresh()
}

func (m *model) refresh() {
	m.tasks = m.tracker.Tasks()
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m model) current() (task.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m *model) setInfo(text string) {
	m.status = text
	m.statusLevel = statusInfo
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusLevel = statusError
}

func (m model) View() string {
	lines := []string{m.renderHeader(), m.renderCapacity(), ""}
	if len(m.tasks) == 0 {
		lines = append(lines, valueMuted.Render("No tasks yet. Press a to add one."))
	}
	for i, item := range m.tasks {
		lines = append(lines, m.renderTask(item, i == m.selected))
	}
	lines = append(lines, "")
	if m.adding {
		lines = append(lines, m.input.View())
	}
	if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, helpStyle.Render(m.helpText()))
	return strings.Join(lines, "\n")
}

func (m model) renderHeader() string {
	stats := m.tracker.Stats()
	return headerStyle.Render("focus") + " " + fmt.Sprintf("Level %d  XP %d/%d %s",
		stats.Level, stats.CurrentXP, stats.NextLevelXP, ui.ProgressBar(stats.Progress(), progressWidth))
}

func (m model) renderCapacity() string {
	return ui.CapacityText(m.tracker.Capacity())
}

func (m model) renderTask(item task.Task, selected bool) string {
	marker := "[ ]"
	if item.Completed {
		marker = "[x]"
	}
	state := " "
	if item.TimerRunning {
		state = "▶"
	}
	clock := fmt.Sprintf("%6s", ui.FormatClock(item.TimeLeft))
	line := fmt.Sprintf("%s %s %s %s %s  %s %s",
		marker, state, clock, ui.ProgressBar(item.Progress(), progressWidth), item.Title, item.Category, ui.DifficultyText(item.Difficulty))

	switch {
	case selected:
		return selectedStyle.Render(line)
	case item.Completed:
		return completedStyle.Render(line)
	case item.Urgent():
		return urgentStyle.Render(line)
	case item.TimerRunning:
		return runningStyle.Render(line)
	default:
		return line
	}
}

func (m model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	text := m.status
	if m.width > 0 {
		text = wordwrap.String(text, m.width)
	}
	switch m.statusLevel {
	case statusError:
		return statusErrorStyle.Render(text)
	case statusInfo:
		return statusSuccessStyle.Render(text)
	default:
		return text
	}
}

func (m model) helpText() string {
	if m.adding {
		return "enter add  esc cancel"
	}
	return "a add  enter timer  x complete  d delete  s suggest  b capacity  q quit"
}

// formatNotifications joins a batch into one status line. Consecutive
// level-ups collapse into the range of levels reached.
func formatNotifications(batch []tracker.Notification) string {
	var parts []string
	for i := 0; i < len(batch); i++ {
		n := batch[i]
		if n.Kind == tracker.KindLevelUp {
			last := i
			for last+1 < len(batch) && batch[last+1].Kind == tracker.KindLevelUp {
				last++
			}
			if last > i {
				parts = append(parts, fmt.Sprintf("Level up! You reached levels %d to %d", n.Level, batch[last].Level))
				i = last
				continue
			}
		}
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " · ")
}
