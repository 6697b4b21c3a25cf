package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateProjectInput struct {
	Title       string
	Description string
	OwnerID     uuid.UUID
}

// CreateProject creates a project on behalf of a PM owner. Admin only.
func (s *Service) CreateProject(ctx context.Context, actor Actor, in CreateProjectInput) (*models.Project, error) {
	if err := Authorize(actor, CapManageProject, Target{}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || in.OwnerID == uuid.Nil {
		return nil, apperrors.New(apperrors.Validation, "Title and ownerId are required")
	}
	if err := s.ensureProjectTitleAvailable(ctx, title, uuid.Nil); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.Validation, "Invalid Project Manager ID")
		}
		return nil, unexpected(err)
	}
	if owner.Role != models.RolePM {
		return nil, apperrors.New(apperrors.Validation, "Invalid Project Manager ID")
	}

	project := &models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     owner.ID,
		Status:      models.ProjectOngoing,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.Conflict, "A project with this title already exists")
		}
		return nil, unexpected(err)
	}
	s.log.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", owner.ID.String()))
	return project, nil
}

// ListAllProjects returns every project with its owner, for the admin view.
func (s *Service) ListAllProjects(ctx context.Context) ([]*models.ProjectWithOwner, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, unexpected(err)
	}
	return projects, nil
}

// ListOwnProjects returns the projects owned by the calling PM.
func (s *Service) ListOwnProjects(ctx context.Context, actor Actor) ([]*models.ProjectWithOwner, error) {
	projects, err := s.projects.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, unexpected(err)
	}
	return projects, nil
}

// RenameProject updates a project title, revalidating global uniqueness with
// the project itself excluded.
func (s *Service) RenameProject(ctx context.Context, actor Actor, projectID uuid.UUID, title string) (*models.Project, error) {
	if err := Authorize(actor, CapManageProject, Target{}); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.Validation, "Project title is required")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "Project not found")
	}
	if err := s.ensureProjectTitleAvailable(ctx, title, projectID); err != nil {
		return nil, err
	}
	if err := s.projects.UpdateTitle(ctx, projectID, title); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.Conflict, "A project with this title already exists")
		}
		return nil, storeErr(err, "Project not found")
	}
	project.Title = title
	return project, nil
}

// DeleteProject removes a project and its whole task set in one transaction:
// no task may ever reference a deleted project, and a failure must not leave
// the cascade half-applied.
func (s *Service) DeleteProject(ctx context.Context, actor Actor, projectID uuid.UUID) error {
	if err := Authorize(actor, CapManageProject, Target{}); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return storeErr(err, "Project not found")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return unexpected(err)
		}
		if err := s.projects.WithTx(tx).Delete(ctx, projectID); err != nil {
			return storeErr(err, "Project not found")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("project deleted", zap.String("project_id", projectID.String()))
	return nil
}
