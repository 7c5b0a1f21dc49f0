package dto

import (
	"github.com/bidflow/bidflow-api/internal/models"
)

// TaskCreateRequest describes the payload for adding a task to an opportunity.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	AssignedTo  *uint  `json:"assigned_to"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskUpdateRequest carries partial updates; nil fields are left untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	AssignedTo  *uint   `json:"assigned_to"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID            uint    `json:"id"`
	OpportunityID uint    `json:"opportunity_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	AssignedTo    *uint   `json:"assigned_to,omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewTaskResponse maps a task model to its API shape.
func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		OpportunityID: task.OpportunityID,
		Title:         task.Title,
		Description:   task.Description,
		AssignedTo:    task.AssignedTo,
		DueDate:       formatTimePtr(task.DueDate),
		Status:        task.Status,
		Priority:      task.Priority,
		CreatedAt:     formatTime(task.CreatedAt),
		UpdatedAt:     formatTime(task.UpdatedAt),
	}
}

// NewTaskResponseSlice maps a slice of task models.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}
