package models

import "time"

// Task statuses. Transitions are user-driven and freely bidirectional; a
// completed task may be reopened.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// IsTaskStatus reports whether the value names a known task status.
func IsTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// IsTaskPriority reports whether the value names a known task priority.
func IsTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a bid-preparation todo item belonging to exactly one opportunity.
type Task struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OpportunityID uint       `gorm:"not null;index" json:"opportunity_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	AssignedTo    *uint      `json:"assigned_to,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `gorm:"size:32;not null;default:todo" json:"status"`
	Priority      string     `gorm:"size:16;not null;default:medium" json:"priority"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether the task still needs work.
func (t Task) IsOpen() bool {
	return t.Status != TaskStatusDone
}
