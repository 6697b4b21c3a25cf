package service

import (
	"context"

	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
)

// AggregateStatus derives a project's status from its current task set: a
// project is completed iff it has at least one task and every task is
// completed. An empty set means ongoing.
func AggregateStatus(tasks []*models.Task) models.ProjectStatus {
	if len(tasks) == 0 {
		return models.ProjectOngoing
	}
	for _, t := range tasks {
		if t.Status != models.TaskCompleted {
			return models.ProjectOngoing
		}
	}
	return models.ProjectCompleted
}

// refreshProjectStatus recomputes and persists the derived status. It is
// idempotent and must run inside the same transaction as the task mutation
// that triggered it, so readers never observe the task changed but the
// project stale. The repositories passed in are the tx-bound copies.
func refreshProjectStatus(ctx context.Context, tasks *db.TaskRepository, projects *db.ProjectRepository, projectID uuid.UUID) error {
	list, err := tasks.ListByProject(ctx, projectID)
	if err != nil {
		return unexpected(err)
	}
	if err := projects.UpdateStatus(ctx, projectID, AggregateStatus(list)); err != nil {
		return unexpected(err)
	}
	return nil
}
