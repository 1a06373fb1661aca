// Package tracker owns the task list and user stats and serializes every
// trigger against them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/amonks/focus/activity"
	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/internal/state"
	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
)

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// ErrInvalidCapacity reports a non-positive capacity budget.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// Options configures a Tracker.
type Options struct {
	// Store persists tasks and stats. Nil keeps state in memory only.
	Store *state.Store

	// Activity receives one event per state change. Optional.
	Activity *activity.Log

	// Notifier receives user-facing notifications. Optional.
	Notifier Notifier

	Logger *log.Logger

	// DefaultMinutes is the duration for input that names none.
	DefaultMinutes int

	// CapacityMinutes is the initial daily budget.
	// Zero means task.DefaultCapacityMinutes.
	CapacityMinutes int

	// TickInterval is how often Run ticks. Zero means one second.
	TickInterval time.Duration

	// Now and NewID are passed to the task store.
	Now   func() time.Time
	NewID func() string

	// Pick chooses a suggestion index; nil picks at random.
	Pick func(n int) int
}

// Tracker is the single controller for tasks and stats. It is safe for
// concurrent use; triggers run one at a time.
type Tracker struct {
	mu       sync.Mutex
	tasks    *task.Store
	stats    reward.Stats
	capacity int

	store    *state.Store
	activity *activity.Log
	notifier Notifier
	logger   *log.Logger

	parseOpts task.ParseOptions
	interval  time.Duration
	pick      func(int) int
}

// Open restores state and returns a tracker. Missing records start from
// defaults. Records that cannot be decoded are discarded with a log line.
func Open(ctx context.Context, opts Options) (*Tracker, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "focus: ", log.LstdFlags)
	}
	capacity := opts.CapacityMinutes
	if capacity <= 0 {
		capacity = task.DefaultCapacityMinutes
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	tasks := []task.Task{}
	stats := reward.DefaultStats()
	if opts.Store != nil {
		loaded, err := opts.Store.LoadTasks(ctx)
		switch {
		case errors.Is(err, state.ErrCorruptRecord):
			logger.Printf("discarding stored tasks: %v", err)
		case err != nil:
			return nil, fmt.Errorf("load tasks: %w", err)
		default:
			tasks = loaded
		}

		loadedStats, err := opts.Store.LoadStats(ctx)
		switch {
		case errors.Is(err, state.ErrCorruptRecord):
			logger.Printf("discarding stored stats: %v", err)
		case err != nil:
			return nil, fmt.Errorf("load stats: %w", err)
		default:
			stats = loadedStats
		}
	}

	tasks, repairs := task.Normalize(tasks)
	for _, repair := range repairs {
		logger.Printf("repaired %s", repair)
	}

	return &Tracker{
		tasks:     task.NewStore(tasks, task.Options{Now: opts.Now, NewID: opts.NewID}),
		stats:     stats,
		capacity:  capacity,
		store:     opts.Store,
		activity:  opts.Activity,
		notifier:  opts.Notifier,
		logger:    logger,
		parseOpts: task.ParseOptions{DefaultMinutes: opts.DefaultMinutes},
		interval:  interval,
		pick:      opts.Pick,
	}, nil
}

// Close closes the activity log and the store.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.activity.Close()
	if t.store != nil {
		err = errors.Join(err, t.store.Close())
	}
	return err
}

// Add parses text and appends the resulting task. Blank input is rejected
// with task.ErrEmptyTitle.
func (t *Tracker) Add(ctx context.Context, text string) (task.Task, error) {
	return t.AddWithDuration(ctx, text, 0)
}

// AddWithDuration is Add with an explicit duration in minutes that
// overrides any duration in the text. Zero keeps the parsed duration.
func (t *Tracker) AddWithDuration(ctx context.Context, text string, minutes int) (task.Task, error) {
	if internalstrings.IsBlank(text) {
		return task.Task{}, task.ErrEmptyTitle
	}
	if minutes != 0 {
		if err := task.ValidateMinutes(minutes); err != nil {
			return task.Task{}, err
		}
	}
	draft := task.Parse(text, t.parseOpts).WithDuration(minutes)

	t.mu.Lock()
	defer t.mu.Unlock()

	added, err := t.tasks.Add(draft)
	if err != nil {
		return task.Task{}, err
	}
	t.record(activity.TaskAdded, added.ID, draft)
	return added, t.saveTasks(ctx)
}

// ToggleComplete flips a task's completed state. The first completion
// grants the task's reward.
func (t *Tracker) ToggleComplete(ctx context.Context, id string) (task.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	transition, err := t.tasks.ToggleComplete(id)
	if err != nil {
		return task.Task{}, err
	}
	if transition.Completed {
		t.record(activity.TaskCompleted, transition.Task.ID, nil)
	} else {
		t.record(activity.TaskReopened, transition.Task.ID, nil)
	}
	granted := t.grant(transition)

	if err := t.saveTasks(ctx); err != nil {
		return transition.Task, err
	}
	if granted {
		return transition.Task, t.saveStats(ctx)
	}
	return transition.Task, nil
}

// ToggleTimer starts or pauses a task's countdown, pausing any other.
// Completed tasks are left unchanged.
func (t *Tracker) ToggleTimer(ctx context.Context, id string) (task.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous, wasRunning := t.tasks.Running()
	toggled, err := t.tasks.ToggleTimer(id)
	if err != nil {
		return task.Task{}, err
	}
	if toggled.Completed {
		return toggled, nil
	}
	if wasRunning && previous.ID != toggled.ID {
		t.record(activity.TimerPaused, previous.ID, nil)
	}
	if toggled.TimerRunning {
		t.record(activity.TimerStarted, toggled.ID, nil)
	} else {
		t.record(activity.TimerPaused, toggled.ID, nil)
	}
	return toggled, t.saveTasks(ctx)
}

// Delete removes a task.
func (t *Tracker) Delete(ctx context.Context, id string) (task.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed, err := t.tasks.Delete(id)
	if err != nil {
		return task.Task{}, err
	}
	t.record(activity.TaskDeleted, removed.ID, nil)
	return removed, t.saveTasks(ctx)
}

// Tick advances the running countdown by one second. Tasks whose countdown
// reaches zero are completed, rewarded and announced.
func (t *Tracker) Tick(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, running := t.tasks.Running(); !running {
		return nil
	}

	granted := false
	for _, transition := range t.tasks.Tick() {
		t.record(activity.TimerFinished, transition.Task.ID, nil)
		t.notify(Notification{Kind: KindTimerFinished, TaskID: transition.Task.ID, Title: transition.Task.Title})
		if t.grant(transition) {
			granted = true
		}
	}

	if err := t.saveTasks(ctx); err != nil {
		return err
	}
	if granted {
		return t.saveStats(ctx)
	}
	return nil
}

// SetCapacity changes the daily budget used by Capacity.
func (t *Tracker) SetCapacity(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, minutes)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.capacity = minutes
	t.record(activity.CapacitySet, "", map[string]int{"minutes": minutes})
	return nil
}

// Run ticks until ctx is done. Tick errors are logged, not returned.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := t.Tick(ctx); err != nil {
				t.logger.Printf("tick: %v", err)
			}
		}
	}
}

// Tasks returns a copy of the task list.
func (t *Tracker) Tasks() []task.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tasks.Tasks()
}

// Get returns a task by ID or unique prefix.
func (t *Tracker) Get(id string) (task.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tasks.Get(id)
}

// Stats returns the current stats.
func (t *Tracker) Stats() reward.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Suggest picks a short incomplete task, if any.
func (t *Tracker) Suggest() (task.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return task.Suggest(t.tasks.Tasks(), t.pick)
}

// Capacity compares remaining work against the current budget.
func (t *Tracker) Capacity() task.Load {
	t.mu.Lock()
	defer t.mu.Unlock()
	return task.Capacity(t.tasks.Tasks(), t.capacity)
}

// CapacityMinutes returns the current budget.
func (t *Tracker) CapacityMinutes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.capacity
}

// Preview parses text without adding a task.
func (t *Tracker) Preview(text string) task.Draft {
	return task.Parse(text, t.parseOpts)
}

// grant applies a transition's reward. It reports whether stats changed.
func (t *Tracker) grant(transition task.Transition) bool {
	if transition.Reward <= 0 {
		return false
	}
	ups := t.stats.Grant(transition.Reward)
	t.record(activity.RewardGranted, transition.Task.ID, map[string]int{"points": transition.Reward})
	t.notify(Notification{
		Kind:   KindRewardGranted,
		TaskID: transition.Task.ID,
		Title:  transition.Task.Title,
		Points: transition.Reward,
	})
	for _, up := range ups {
		t.record(activity.LevelUp, transition.Task.ID, up)
		t.notify(Notification{Kind: KindLevelUp, TaskID: transition.Task.ID, Level: up.Level})
	}
	return true
}

func (t *Tracker) notify(n Notification) {
	if t.notifier != nil {
		t.notifier.Notify(n)
	}
}

func (t *Tracker) record(name, taskID string, payload any) {
	if err := t.activity.Record(name, taskID, payload); err != nil {
		t.logger.Printf("record %s: %v", name, err)
	}
}

func (t *Tracker) saveTasks(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	return t.store.SaveTasks(ctx, t.tasks.Tasks())
}

func (t *Tracker) saveStats(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	return t.store.SaveStats(ctx, t.stats)
}
