package service

import (
	"time"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
)

// The task lifecycle is strictly forward: pending -> ongoing -> completed.
// Each legal transition carries its side effect, so the once-set timestamps
// are enforced by the table itself rather than by if-nil checks at call
// sites.

type transition struct {
	from, to models.TaskStatus
}

var transitionEffects = map[transition]func(*models.Task, time.Time){
	{models.TaskPending, models.TaskOngoing}: func(t *models.Task, now time.Time) {
		t.Status = models.TaskOngoing
		t.InitiatedAt = &now
	},
	{models.TaskOngoing, models.TaskCompleted}: func(t *models.Task, now time.Time) {
		t.Status = models.TaskCompleted
		t.CompletedAt = &now
	},
}

// ApplyTransition mutates task according to the transition table. It returns
// false with a nil error when the requested status equals the current one (a
// no-op), and a StateError for any rejected transition, leaving the task
// untouched.
func ApplyTransition(task *models.Task, to models.TaskStatus, now time.Time) (bool, error) {
	if task.Status == to {
		return false, nil
	}
	effect, ok := transitionEffects[transition{task.Status, to}]
	if !ok {
		if task.Status == models.TaskPending && to == models.TaskCompleted {
			return false, apperrors.New(apperrors.State,
				"Task must be ongoing before marking completed")
		}
		return false, apperrors.New(apperrors.State,
			"Cannot revert task to a previous state")
	}
	effect(task, now)
	return true, nil
}
