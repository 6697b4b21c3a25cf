package service

import (
	"context"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/google/uuid"
)

// Title uniqueness is case-insensitive: global for projects, per-project for
// tasks. These checks are the fast path producing a friendly conflict; the
// lower(title) unique indexes close the race window between check and write.

func (s *Service) ensureProjectTitleAvailable(ctx context.Context, title string, excludeID uuid.UUID) error {
	exists, err := s.projects.TitleExists(ctx, title, excludeID)
	if err != nil {
		return unexpected(err)
	}
	if exists {
		return apperrors.New(apperrors.Conflict, "A project with this title already exists")
	}
	return nil
}

func (s *Service) ensureTaskTitleAvailable(ctx context.Context, projectID uuid.UUID, title string, excludeID uuid.UUID) error {
	exists, err := s.tasks.TitleExistsInProject(ctx, projectID, title, excludeID)
	if err != nil {
		return unexpected(err)
	}
	if exists {
		return apperrors.New(apperrors.Conflict, "A task with this title already exists")
	}
	return nil
}
