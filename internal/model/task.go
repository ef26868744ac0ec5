package model

import "time"

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists all valid statuses in display order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists all valid priorities in display order
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the server-owned task record. IDs are assigned by the server,
// the client never invents one.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Overdue reports whether the task has a due date in the past and is not done
func (t *Task) Overdue() bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(time.Now())
}

// TaskInput is the payload for creating or updating a task. The validate
// tags mirror the server-side constraints.
type TaskInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=1000"`
	Status      Status     `json:"status" validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Priority    Priority   `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// NewTaskInput returns an input with the server's defaults
func NewTaskInput() TaskInput {
	return TaskInput{
		Status:   StatusTodo,
		Priority: PriorityMedium,
	}
}

// Statistics holds the aggregate counts reported by the statistics endpoint.
// The client never derives these from the paginated list.
type Statistics struct {
	TotalTasks          int64 `json:"totalTasks"`
	TodoTasks           int64 `json:"todoTasks"`
	InProgressTasks     int64 `json:"inProgressTasks"`
	DoneTasks           int64 `json:"doneTasks"`
	HighPriorityTasks   int64 `json:"highPriorityTasks"`
	MediumPriorityTasks int64 `json:"mediumPriorityTasks"`
	LowPriorityTasks    int64 `json:"lowPriorityTasks"`
}
