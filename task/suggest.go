package task

import "math/rand/v2"

// Suggest picks one incomplete task with at most ShortTaskSeconds left.
// pick(n) must return a value in [0, n); nil picks uniformly at random.
// The boolean is false when no task qualifies.
func Suggest(tasks []Task, pick func(n int) int) (Task, bool) {
	var candidates []Task
	for _, t := range tasks {
		if !t.Completed && t.TimeLeft <= ShortTaskSeconds {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return Task{}, false
	}
	if pick == nil {
		pick = rand.IntN
	}
	return candidates[pick(len(candidates))], true
}
