package task

import (
	"fmt"
	"strings"
	"time"
)

// Transition describes a task moving into or out of the completed state.
type Transition struct {
	// Task is the task after the transition.
	Task Task

	// Completed reports whether the task moved into the completed state.
	Completed bool

	// Reward is the number of points to grant. It is non-zero only the first
	// time a task is completed.
	Reward int
}

// Options configures a Store.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewID returns a fresh task ID. Defaults to GenerateID.
	NewID func() string
}

// Store is the ordered, in-memory task list.
//
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	tasks []Task
	now   func() time.Time
	newID func() string
}

// NewStore returns a store holding a copy of tasks.
func NewStore(tasks []Task, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = GenerateID
	}
	return &Store{
		tasks: append([]Task(nil), tasks...),
		now:   opts.Now,
		newID: opts.NewID,
	}
}

// Tasks returns a copy of the tasks in insertion order.
func (s *Store) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Resolve returns the full ID for an ID or unique ID prefix.
func (s *Store) Resolve(prefix string) (string, error) {
	return NewIDIndex(s.tasks).Resolve(prefix)
}

// Get returns the task with the given ID or unique ID prefix.
func (s *Store) Get(id string) (Task, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}
	return s.tasks[i], nil
}

// Running returns the task whose timer is running, if any.
func (s *Store) Running() (Task, bool) {
	for _, t := range s.tasks {
		if t.TimerRunning {
			return t, true
		}
	}
	return Task{}, false
}

// Add appends a new task built from the draft. The timer starts stopped with
// the full duration remaining.
func (s *Store) Add(d Draft) (Task, error) {
	if err := ValidateDraft(d); err != nil {
		return Task{}, err
	}
	if d.RewardPoints < 0 {
		return Task{}, fmt.Errorf("reward points must not be negative: got %d", d.RewardPoints)
	}

	if d.Category == "" {
		d.Category = CategoryOther
	}
	if d.Difficulty == 0 {
		d.Difficulty = DifficultyForMinutes(d.DurationMinutes)
	}

	seconds := d.DurationMinutes * 60
	t := Task{
		ID:           s.newID(),
		Title:        strings.TrimSpace(d.Title),
		TimeLeft:     seconds,
		InitialTime:  seconds,
		Category:     d.Category,
		Difficulty:   d.Difficulty,
		RewardPoints: d.RewardPoints,
		CreatedAt:    s.now(),
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// ToggleComplete flips the completed flag and always stops the task's timer.
//
// The first transition into completed carries the task's reward. Moving a
// task back to incomplete keeps the reward that was already granted.
// TODO: decide whether reopening a rewarded task should revoke its points.
func (s *Store) ToggleComplete(id string) (Transition, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return Transition{}, err
	}

	if !s.tasks[i].Completed {
		return s.complete(i), nil
	}

	s.tasks[i].Completed = false
	s.tasks[i].TimerRunning = false
	s.tasks[i].CompletedAt = nil
	return Transition{Task: s.tasks[i]}, nil
}

// ToggleTimer starts or pauses the task's timer and stops every other timer.
// It is a no-op for completed tasks.
func (s *Store) ToggleTimer(id string) (Task, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}
	if s.tasks[i].Completed {
		return s.tasks[i], nil
	}

	for j := range s.tasks {
		if j == i {
			s.tasks[j].TimerRunning = !s.tasks[j].TimerRunning
			continue
		}
		s.tasks[j].TimerRunning = false
	}
	return s.tasks[i], nil
}

// Delete removes a task and returns it.
func (s *Store) Delete(id string) (Task, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return removed, nil
}

// Tick advances every running timer by one second. A timer that reaches zero
// stops and completes its task in the same tick; the returned transitions
// list those completions.
func (s *Store) Tick() []Transition {
	var finished []Transition
	for i := range s.tasks {
		t := &s.tasks[i]
		if !t.TimerRunning {
			continue
		}
		if t.Completed {
			t.TimerRunning = false
			continue
		}
		if t.TimeLeft > 0 {
			t.TimeLeft--
		}
		if t.TimeLeft == 0 {
			finished = append(finished, s.complete(i))
		}
	}
	return finished
}

func (s *Store) complete(i int) Transition {
	now := s.now()
	t := &s.tasks[i]
	t.Completed = true
	t.TimerRunning = false
	t.CompletedAt = &now

	transition := Transition{Completed: true}
	if !t.Rewarded {
		t.Rewarded = true
		transition.Reward = t.RewardPoints
	}
	transition.Task = *t
	return transition
}

func (s *Store) indexOf(id string) (int, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return -1, err
	}
	for i, t := range s.tasks {
		if strings.EqualFold(t.ID, resolved) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}
