package task

import "github.com/amonks/focus/internal/ids"

// GenerateID creates a unique 8-character ID for a new task.
func GenerateID() string {
	return ids.GenerateRandom(ids.DefaultLength)
}
