package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

func newTaskTestService(t *testing.T, db *gorm.DB) (TaskService, models.Opportunity) {
	t.Helper()
	tender := seedServiceTender(t, db, "RFQ-T-1", "Software Development", nil)
	opportunity := models.Opportunity{TenderID: tender.ID, Status: models.OpportunityStatusPreparing}
	require.NoError(t, db.Create(&opportunity).Error)

	svc := NewTaskService(repository.NewTaskRepository(db), repository.NewOpportunityRepository(db), newTestValidator(), zerolog.Nop())
	return svc, opportunity
}

func TestTaskServiceCreateDefaults(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	task, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{Title: "Draft technical proposal"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.Nil(t, task.DueDate)
}

func TestTaskServiceCreateWithPriorityAndDueDate(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	due := time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339)
	task, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{
		Title:    "Obtain signed declaration forms",
		Priority: models.TaskPriorityHigh,
		DueDate:  due,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskPriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
}

func TestTaskServiceCreateValidation(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{Title: "ab"})
	require.Error(t, err)

	_, err = svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{Title: "Valid title", Priority: "urgent"})
	require.Error(t, err)

	_, err = svc.Create(ctx, 999, dto.TaskCreateRequest{Title: "Valid title"})
	require.ErrorIs(t, err, ErrOpportunityNotFound)
}

func TestTaskServiceUpdateIsPartialAndBidirectional(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	task, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{
		Title:       "Review bid document",
		Description: "Full review before submission",
	})
	require.NoError(t, err)

	done := models.TaskStatusDone
	updated, err := svc.Update(ctx, task.ID, dto.TaskUpdateRequest{Status: &done})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDone, updated.Status)
	require.Equal(t, "Review bid document", updated.Title)
	require.Equal(t, "Full review before submission", updated.Description)

	reopened := models.TaskStatusTodo
	updated, err = svc.Update(ctx, task.ID, dto.TaskUpdateRequest{Status: &reopened})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, updated.Status)
}

func TestTaskServiceUpdateClearsDueDate(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	task, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{Title: "Book courier slot", DueDate: due})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	empty := ""
	updated, err := svc.Update(ctx, task.ID, dto.TaskUpdateRequest{DueDate: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
}

func TestTaskServiceUpdateUnknownTask(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTaskTestService(t, db)

	title := "New title"
	_, err := svc.Update(context.Background(), 999, dto.TaskUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskServiceDelete(t *testing.T) {
	db := setupServiceDB(t)
	svc, opportunity := newTaskTestService(t, db)
	ctx := context.Background()

	task, err := svc.Create(ctx, opportunity.ID, dto.TaskCreateRequest{Title: "Print and bind copies"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))
	require.ErrorIs(t, svc.Delete(ctx, task.ID), ErrTaskNotFound)
}
