package task

import "time"

// Task is a unit of work with its own countdown.
type Task struct {
	// ID is a unique 8-char lowercase base32 identifier.
	ID string `json:"id"`

	// Title is the task text with any duration marker removed.
	Title string `json:"title"`

	// Completed reports whether the task is done.
	Completed bool `json:"completed"`

	// TimeLeft is the remaining countdown in seconds (0..InitialTime).
	TimeLeft int `json:"time_left"`

	// InitialTime is the countdown length in seconds, fixed at creation.
	InitialTime int `json:"initial_time"`

	// TimerRunning reports whether the countdown is active.
	TimerRunning bool `json:"timer_running"`

	Category     Category   `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	RewardPoints int        `json:"reward_points"`

	// Rewarded is set once RewardPoints have been granted.
	Rewarded bool `json:"rewarded"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Elapsed returns how much of the countdown has been used.
func (t Task) Elapsed() int {
	return t.InitialTime - t.TimeLeft
}

// Progress returns the fraction of the countdown remaining, between 0 and 1.
func (t Task) Progress() float64 {
	if t.InitialTime <= 0 {
		return 0
	}
	return float64(t.TimeLeft) / float64(t.InitialTime)
}

// Urgent reports whether an incomplete task has under a minute left.
func (t Task) Urgent() bool {
	return !t.Completed && t.TimeLeft < UrgentSeconds
}

// Draft is a normalized request to create a task.
type Draft struct {
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Category        Category   `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	RewardPoints    int        `json:"reward_points"`
}
