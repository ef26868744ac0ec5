package tui

import "github.com/aymane70/taskman/internal/model"

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// nextStatusFilter cycles the status filter: all, TODO, IN_PROGRESS, DONE
func nextStatusFilter(current model.Status) model.Status {
	switch current {
	case "":
		return model.StatusTodo
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return ""
	}
}

// nextPriorityFilter cycles the priority filter: all, HIGH, MEDIUM, LOW
func nextPriorityFilter(current model.Priority) model.Priority {
	switch current {
	case "":
		return model.PriorityHigh
	case model.PriorityHigh:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityLow
	default:
		return ""
	}
}

// nextSortField cycles the sort field through the server's sortable columns
func nextSortField(current string) string {
	switch current {
	case "createdAt":
		return "dueDate"
	case "dueDate":
		return "priority"
	case "priority":
		return "title"
	default:
		return "createdAt"
	}
}

// nextStatus cycles a task status value in the edit form
func nextStatus(current model.Status) model.Status {
	switch current {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

// nextPriority cycles a task priority value in the edit form
func nextPriority(current model.Priority) model.Priority {
	switch current {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

// statusIcon returns the checkbox icon for a task status
func statusIcon(s model.Status) string {
	switch s {
	case model.StatusDone:
		return "[x]"
	case model.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}
