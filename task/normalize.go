package task

import "fmt"

// Normalize repairs restored tasks so the store invariants hold: time left
// stays within 0..InitialTime, completed tasks have no running timer, and at
// most one timer runs. It returns the repaired tasks and a description of
// each repair.
func Normalize(tasks []Task) ([]Task, []string) {
	var repairs []string
	repaired := make([]Task, 0, len(tasks))
	runningSeen := false
	for _, t := range tasks {
		if t.InitialTime <= 0 {
			repairs = append(repairs, fmt.Sprintf("task %s: dropped, initial time %d is not positive", t.ID, t.InitialTime))
			continue
		}
		if t.TimeLeft < 0 {
			repairs = append(repairs, fmt.Sprintf("task %s: time left %d clamped to 0", t.ID, t.TimeLeft))
			t.TimeLeft = 0
		}
		if t.TimeLeft > t.InitialTime {
			repairs = append(repairs, fmt.Sprintf("task %s: time left %d clamped to %d", t.ID, t.TimeLeft, t.InitialTime))
			t.TimeLeft = t.InitialTime
		}
		if t.Completed && t.TimerRunning {
			repairs = append(repairs, fmt.Sprintf("task %s: stopped timer on completed task", t.ID))
			t.TimerRunning = false
		}
		if t.TimerRunning {
			if runningSeen {
				repairs = append(repairs, fmt.Sprintf("task %s: stopped second running timer", t.ID))
				t.TimerRunning = false
			}
			runningSeen = true
		}
		if !t.Category.IsValid() {
			t.Category = CategoryOther
		}
		if !t.Difficulty.IsValid() {
			t.Difficulty = DifficultyForMinutes(t.InitialTime / 60)
		}
		repaired = append(repaired, t)
	}
	return repaired, repairs
}
