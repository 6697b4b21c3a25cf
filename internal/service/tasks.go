package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateTaskInput struct {
	Title      string
	AssignedTo uuid.UUID
	DueDate    time.Time
}

// getOwnedProject loads a project and checks ownership. A missing project is
// NotFound; a project owned by someone else is an Authorization error. The
// order matters: absence wins.
func (s *Service) getOwnedProject(ctx context.Context, actor Actor, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "Project not found")
	}
	if err := Authorize(actor, CapManageTasks, Target{Project: project}); err != nil {
		return nil, err
	}
	return project, nil
}

// CreateTask creates a pending task under a project owned by the calling PM
// and recomputes the project status in the same transaction.
func (s *Service) CreateTask(ctx context.Context, actor Actor, projectID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.AssignedTo == uuid.Nil || in.DueDate.IsZero() {
		return nil, apperrors.New(apperrors.Validation, "title, assignedTo and dueDate are required")
	}

	project, err := s.getOwnedProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, in.AssignedTo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.Validation, "Assigned user not found")
		}
		return nil, unexpected(err)
	}
	if !assignee.Role.Assignable() {
		return nil, apperrors.New(apperrors.Validation, "Assignee must be a PM or Developer")
	}
	if in.DueDate.Before(s.now()) {
		return nil, apperrors.New(apperrors.Validation, "Due date cannot be in the past")
	}
	if err := s.ensureTaskTitleAvailable(ctx, project.ID, title, uuid.Nil); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:         uuid.New(),
		Title:      title,
		Status:     models.TaskPending,
		AssignedTo: assignee.ID,
		DueDate:    in.DueDate,
		ProjectID:  project.ID,
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			if db.IsUniqueViolation(err) {
				return apperrors.New(apperrors.Conflict, "A task with this title already exists")
			}
			return unexpected(err)
		}
		return refreshProjectStatus(ctx, s.tasks.WithTx(tx), s.projects.WithTx(tx), project.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("task created",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", project.ID.String()))
	return task, nil
}

// ListProjectTasks lists a project's tasks for its owning PM.
func (s *Service) ListProjectTasks(ctx context.Context, actor Actor, projectID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	if _, err := s.getOwnedProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProjectWithAssignee(ctx, projectID)
	if err != nil {
		return nil, unexpected(err)
	}
	return tasks, nil
}

// ListAssignedTasks lists the tasks assigned to a user, with the owning
// project summarized alongside.
func (s *Service) ListAssignedTasks(ctx context.Context, userID uuid.UUID) ([]*models.TaskWithProject, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, unexpected(err)
	}
	return tasks, nil
}

// UpdateTaskInput carries the fields a PM may edit; nil means "leave as is".
type UpdateTaskInput struct {
	Title      *string
	AssignedTo *uuid.UUID
	DueDate    *time.Time
}

// UpdateTask edits title, due date or assignee of a task. Completed tasks
// are frozen, reassignment is rejected once the task is ongoing, and a
// request that changes nothing is rejected outright.
func (s *Service) UpdateTask(ctx context.Context, actor Actor, taskID uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "Task not found")
	}
	if _, err := s.getOwnedProject(ctx, actor, task.ProjectID); err != nil {
		return nil, err
	}
	if task.Status == models.TaskCompleted {
		return nil, apperrors.New(apperrors.State, "Cannot modify a completed task")
	}

	changed := false

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.New(apperrors.Validation, "Title cannot be empty")
		}
		if title != task.Title {
			if err := s.ensureTaskTitleAvailable(ctx, task.ProjectID, title, task.ID); err != nil {
				return nil, err
			}
			task.Title = title
			changed = true
		}
	}

	if in.DueDate != nil {
		if in.DueDate.Before(s.now()) {
			return nil, apperrors.New(apperrors.Validation, "Due date cannot be in the past")
		}
		if !in.DueDate.Equal(task.DueDate) {
			task.DueDate = *in.DueDate
			changed = true
		}
	}

	if in.AssignedTo != nil && *in.AssignedTo != task.AssignedTo {
		if task.Status == models.TaskOngoing {
			return nil, apperrors.New(apperrors.State, "Cannot reassign a task that is already ongoing")
		}
		assignee, err := s.users.GetByID(ctx, *in.AssignedTo)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.New(apperrors.Validation, "Assigned user not found")
			}
			return nil, unexpected(err)
		}
		if !assignee.Role.Assignable() {
			return nil, apperrors.New(apperrors.Validation, "Assignee must be a PM or Developer")
		}
		task.AssignedTo = assignee.ID
		changed = true
	}

	if !changed {
		return nil, apperrors.New(apperrors.Conflict, "No valid changes detected")
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.Conflict, "A task with this title already exists")
		}
		return nil, storeErr(err, "Task not found")
	}
	return task, nil
}

// DeleteTask removes a task that is not mid-flight and recomputes the
// project status: deleting the last non-completed task may complete the
// project, deleting the only task resets it to ongoing.
func (s *Service) DeleteTask(ctx context.Context, actor Actor, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return storeErr(err, "Task not found")
	}
	if _, err := s.getOwnedProject(ctx, actor, task.ProjectID); err != nil {
		return err
	}
	if task.Status == models.TaskOngoing {
		return apperrors.New(apperrors.State, "Cannot delete a task that is in progress (ongoing)")
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Delete(ctx, task.ID); err != nil {
			return storeErr(err, "Task not found")
		}
		return refreshProjectStatus(ctx, s.tasks.WithTx(tx), s.projects.WithTx(tx), task.ProjectID)
	})
	if err != nil {
		return err
	}
	s.log.Info("task deleted", zap.String("task_id", task.ID.String()))
	return nil
}

// AdvanceTaskStatus moves a task through its lifecycle on behalf of its
// assignee, then recomputes the project status in the same transaction.
// Requesting the current status is a no-op.
func (s *Service) AdvanceTaskStatus(ctx context.Context, actor Actor, taskID uuid.UUID, statusInput string) (*models.Task, error) {
	if strings.TrimSpace(statusInput) == "" {
		return nil, apperrors.New(apperrors.Validation, "Status field is required")
	}
	status, ok := models.ParseTaskStatus(statusInput)
	if !ok {
		return nil, apperrors.New(apperrors.Validation, "Invalid status value")
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "Task not found")
	}
	if err := Authorize(actor, CapAdvanceTask, Target{Task: task}); err != nil {
		return nil, err
	}

	changed, err := ApplyTransition(task, status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		return task, nil
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Update(ctx, task); err != nil {
			return storeErr(err, "Task not found")
		}
		return refreshProjectStatus(ctx, s.tasks.WithTx(tx), s.projects.WithTx(tx), task.ProjectID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("task status updated",
		zap.String("task_id", task.ID.String()),
		zap.String("status", string(task.Status)))
	return task, nil
}
