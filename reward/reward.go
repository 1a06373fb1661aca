// Package reward implements the experience-point and level curve.
package reward

import (
	"errors"
	"fmt"
)

const (
	// DefaultNextLevelXP is the XP needed to leave level 1.
	DefaultNextLevelXP = 100

	growthNumerator   = 6
	growthDenominator = 5
)

// ErrInvalidStats reports a stats record that breaks the level invariants.
var ErrInvalidStats = errors.New("invalid stats")

// Stats is the user's progression state.
type Stats struct {
	Level       int `json:"level"`
	CurrentXP   int `json:"current_xp"`
	NextLevelXP int `json:"next_level_xp"`
	Streak      int `json:"streak"`
}

// LevelUp describes a single level threshold crossing.
type LevelUp struct {
	Level       int `json:"level"`
	NextLevelXP int `json:"next_level_xp"`
}

// DefaultStats returns the stats of a new user.
func DefaultStats() Stats {
	return Stats{Level: 1, NextLevelXP: DefaultNextLevelXP}
}

// Grant adds amount XP and returns one LevelUp per threshold crossed, in
// order. Non-positive amounts are ignored.
func (s *Stats) Grant(amount int) []LevelUp {
	if amount <= 0 {
		return nil
	}
	s.CurrentXP += amount

	var ups []LevelUp
	for s.NextLevelXP > 0 && s.CurrentXP >= s.NextLevelXP {
		s.CurrentXP -= s.NextLevelXP
		s.Level++
		s.NextLevelXP = grow(s.NextLevelXP)
		ups = append(ups, LevelUp{Level: s.Level, NextLevelXP: s.NextLevelXP})
	}
	return ups
}

// Progress returns the fraction of the current level completed, in [0, 1].
func (s Stats) Progress() float64 {
	if s.NextLevelXP <= 0 {
		return 0
	}
	p := float64(s.CurrentXP) / float64(s.NextLevelXP)
	if p > 1 {
		return 1
	}
	return p
}

// Validate reports whether s satisfies the level invariants.
func (s Stats) Validate() error {
	if s.Level < 1 {
		return fmt.Errorf("%w: level %d", ErrInvalidStats, s.Level)
	}
	if s.CurrentXP < 0 {
		return fmt.Errorf("%w: current xp %d", ErrInvalidStats, s.CurrentXP)
	}
	if s.NextLevelXP <= 0 {
		return fmt.Errorf("%w: next level xp %d", ErrInvalidStats, s.NextLevelXP)
	}
	if s.Streak < 0 {
		return fmt.Errorf("%w: streak %d", ErrInvalidStats, s.Streak)
	}
	return nil
}

// grow applies the x1.2 threshold growth, floored.
func grow(n int) int {
	next := n * growthNumerator / growthDenominator
	if next <= n {
		next = n + 1
	}
	return next
}
