// Package task implements the focus task list: an ordered set of tasks, each
// with its own countdown timer, of which at most one runs at a time.
//
// The public API mirrors the user actions:
//   - Add, ToggleComplete, ToggleTimer, Delete for task lifecycle
//   - Tick for the once-per-second countdown
//   - Parse for turning free text into a Draft
//   - Suggest and Capacity for read-only summaries
package task

// Category classifies a task by subject.
type Category string

const (
	// CategoryWork covers job-related tasks.
	CategoryWork Category = "Work"

	// CategoryStudy covers learning and reading.
	CategoryStudy Category = "Study"

	// CategoryHealth covers exercise and wellbeing.
	CategoryHealth Category = "Health"

	// CategoryOther is used when no keyword matches.
	CategoryOther Category = "Other"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryWork, CategoryStudy, CategoryHealth, CategoryOther}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Difficulty is a tier derived from a task's duration.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyNormal Difficulty = 2 // over 30 minutes
	DifficultyHard   Difficulty = 3 // 45 minutes or more
)

// HardMinutes is the shortest duration rated DifficultyHard.
const HardMinutes = 45

// IsValid returns true if the difficulty is a known tier.
func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// Name returns a human-readable name for the tier.
func (d Difficulty) Name() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// DifficultyForMinutes returns the tier for a duration in minutes.
func DifficultyForMinutes(minutes int) Difficulty {
	switch {
	case minutes >= HardMinutes:
		return DifficultyHard
	case minutes > 30:
		return DifficultyNormal
	default:
		return DifficultyEasy
	}
}

const (
	// DefaultMinutes is the duration used when the input names none.
	DefaultMinutes = 25

	// MaxDurationMinutes caps a task's duration at one day.
	MaxDurationMinutes = 24 * 60

	// ShortTaskSeconds is the remaining-time ceiling for suggestions.
	ShortTaskSeconds = 15 * 60

	// MaxTitleLength is the maximum allowed length for a task title.
	MaxTitleLength = 500
)

// UrgentSeconds is the time left below which a task is shown as urgent.
const UrgentSeconds = 60

// DurationOptions lists the preset durations offered by the UIs, in minutes.
func DurationOptions() []int {
	return []int{10, 25, 45, 60}
}

// WithDuration returns d re-rated for a duration chosen outside the text.
// Category and title are kept; difficulty and reward follow the duration.
// Durations outside 1..MaxDurationMinutes leave d unchanged.
func (d Draft) WithDuration(minutes int) Draft {
	if ValidateMinutes(minutes) != nil {
		return d
	}
	d.DurationMinutes = minutes
	d.Difficulty = DifficultyForMinutes(minutes)
	d.RewardPoints = minutes * int(d.Difficulty)
	return d
}
