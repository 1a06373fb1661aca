package task

import (
	"errors"
	"fmt"

	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task title is empty or whitespace.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidDuration is returned when a duration is not between one
	// minute and MaxDurationMinutes.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidCategory is returned for an unknown category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidDifficulty is returned for an unknown difficulty tier.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidateDraft checks a draft before it is added.
func ValidateDraft(d Draft) error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	if err := ValidateMinutes(d.DurationMinutes); err != nil {
		return err
	}
	if d.Category != "" && !d.Category.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidCategory, d.Category, ValidCategories())
	}
	if d.Difficulty != 0 && !d.Difficulty.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, d.Difficulty)
	}
	return nil
}

// ValidateMinutes checks that a duration in minutes is positive and at most
// MaxDurationMinutes.
func ValidateMinutes(minutes int) error {
	if minutes <= 0 || minutes > MaxDurationMinutes {
		return fmt.Errorf("%w: got %d, want 1..%d minutes", ErrInvalidDuration, minutes, MaxDurationMinutes)
	}
	return nil
}
