package task

// DefaultCapacityMinutes is the daily budget when none is configured.
const DefaultCapacityMinutes = 8 * 60

// CapacityOptions lists the budgets offered by the UIs, in minutes.
func CapacityOptions() []int {
	return []int{2 * 60, 4 * 60, 6 * 60, 8 * 60}
}

// Load compares the remaining work against a daily budget.
type Load struct {
	RemainingSeconds int `json:"remaining_seconds"`
	BudgetSeconds    int `json:"budget_seconds"`
	OpenTasks        int `json:"open_tasks"`
}

// Over reports whether the remaining work exceeds the budget.
func (l Load) Over() bool {
	return l.RemainingSeconds > l.BudgetSeconds
}

// Percent returns the share of the budget the remaining work fills.
func (l Load) Percent() int {
	if l.BudgetSeconds <= 0 {
		if l.RemainingSeconds > 0 {
			return 100
		}
		return 0
	}
	return l.RemainingSeconds * 100 / l.BudgetSeconds
}

// FreeSeconds returns the unplanned part of the budget, or 0 when over.
func (l Load) FreeSeconds() int {
	if l.Over() {
		return 0
	}
	return l.BudgetSeconds - l.RemainingSeconds
}

// Capacity sums the time left on incomplete tasks against budgetMinutes.
func Capacity(tasks []Task, budgetMinutes int) Load {
	load := Load{BudgetSeconds: budgetMinutes * 60}
	if load.BudgetSeconds < 0 {
		load.BudgetSeconds = 0
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		load.RemainingSeconds += t.TimeLeft
		load.OpenTasks++
	}
	return load
}
