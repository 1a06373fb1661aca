package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// newTestStore returns a store with predictable IDs ("task0001", ...).
func newTestStore(t *testing.T, tasks ...Task) *Store {
	t.Helper()
	next := 0
	return NewStore(tasks, Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			next++
			return fmt.Sprintf("task%04d", next)
		},
	})
}

func mustAdd(t *testing.T, s *Store, input string) Task {
	t.Helper()
	added, err := s.Add(Parse(input, ParseOptions{}))
	require.NoError(t, err)
	return added
}

func runningCount(tasks []Task) int {
	count := 0
	for _, t := range tasks {
		if t.TimerRunning {
			count++
		}
	}
	return count
}

func checkInvariants(t *testing.T, tasks []Task) {
	t.Helper()
	require.LessOrEqual(t, runningCount(tasks), 1, "more than one running timer")
	for _, task := range tasks {
		require.GreaterOrEqual(t, task.TimeLeft, 0, "task %s time left negative", task.ID)
		require.LessOrEqual(t, task.TimeLeft, task.InitialTime, "task %s time left above initial", task.ID)
		if task.Completed {
			require.False(t, task.TimerRunning, "completed task %s has running timer", task.ID)
		}
	}
}
