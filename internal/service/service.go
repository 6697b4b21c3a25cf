// Package service holds the task lifecycle state machine, project status
// aggregation and the ownership rules that gate every mutation. Handlers stay
// thin; everything with invariants lives here.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	db       *sql.DB
	users    *db.UserRepository
	projects *db.ProjectRepository
	tasks    *db.TaskRepository
	log      *zap.Logger

	// injectable clock for transition timestamps and due date checks
	now func() time.Time
}

func New(sqlDB *sql.DB, log *zap.Logger) *Service {
	return &Service{
		db:       sqlDB,
		users:    db.NewUserRepository(sqlDB),
		projects: db.NewProjectRepository(sqlDB),
		tasks:    db.NewTaskRepository(sqlDB),
		log:      log,
		now:      time.Now,
	}
}

// Actor is the verified identity of the caller, supplied by the auth
// middleware and trusted verbatim.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// withTx runs fn inside a transaction so multi-step writes (transition plus
// recompute, cascade delete) never leave partial state visible.
func (s *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.Unexpected, "begin transaction", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, "commit transaction", err)
	}
	return nil
}

// storeErr converts a repository error: missing rows become NotFound with
// msg, anything else is an infrastructure fault.
func storeErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.New(apperrors.NotFound, msg)
	}
	return apperrors.Wrap(apperrors.Unexpected, "storage failure", err)
}

func unexpected(err error) error {
	return apperrors.Wrap(apperrors.Unexpected, "storage failure", err)
}
