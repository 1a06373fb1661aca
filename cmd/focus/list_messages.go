package main

func taskEmptyListMessage(total int, includeAll bool) string {
	if total == 0 {
		return "No tasks yet. Add one with: focus add \"Report 45min\""
	}
	if !includeAll {
		return "No open tasks. Use --all to include completed tasks."
	}
	return "No tasks found."
}
