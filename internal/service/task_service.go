package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

// ErrTaskNotFound indicates the requested task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskService manages per-opportunity bid preparation tasks.
type TaskService interface {
	List(ctx context.Context, opportunityID uint) ([]dto.TaskResponse, error)
	Create(ctx context.Context, opportunityID uint, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, id uint) error
}

type taskService struct {
	tasks         repository.TaskRepository
	opportunities repository.OpportunityRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewTaskService builds a new task service.
func NewTaskService(tasks repository.TaskRepository, opportunities repository.OpportunityRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:         tasks,
		opportunities: opportunities,
		validator:     validate,
		logger:        logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) List(ctx context.Context, opportunityID uint) ([]dto.TaskResponse, error) {
	if err := s.ensureOpportunity(ctx, opportunityID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskResponseSlice(tasks), nil
}

func (s *taskService) Create(ctx context.Context, opportunityID uint, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	if err := s.ensureOpportunity(ctx, opportunityID); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		OpportunityID: opportunityID,
		Title:         payload.Title,
		Description:   payload.Description,
		AssignedTo:    payload.AssignedTo,
		Status:        models.TaskStatusTodo,
		Priority:      models.TaskPriorityMedium,
	}

	if payload.Priority != "" {
		task.Priority = payload.Priority
	}

	if payload.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		task.DueDate = &dueDate
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Uint("opportunity_id", opportunityID).Msg("task created")

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = *payload.Description
	}
	if payload.AssignedTo != nil {
		task.AssignedTo = payload.AssignedTo
	}
	if payload.Status != nil {
		// Task statuses are freely bidirectional; a done task may be reopened.
		task.Status = *payload.Status
	}
	if payload.Priority != nil {
		task.Priority = *payload.Priority
	}
	if payload.DueDate != nil {
		if *payload.DueDate == "" {
			task.DueDate = nil
		} else {
			dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
			if err != nil {
				return dto.TaskResponse{}, fmt.Errorf("invalid due date: %w", err)
			}
			task.DueDate = &dueDate
		}
	}

	if err := s.tasks.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Str("status", task.Status).Msg("task updated")

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id uint) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.logger.Info().Uint("task_id", id).Msg("task deleted")
	return nil
}

func (s *taskService) ensureOpportunity(ctx context.Context, opportunityID uint) error {
	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpportunityNotFound
		}
		return err
	}
	return nil
}
