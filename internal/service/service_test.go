package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a fresh pool connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.EnsureSchema(context.Background(), sqlDB))
	return New(sqlDB, zap.NewNop())
}

func seedUser(t *testing.T, s *Service, name string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func seedProject(t *testing.T, s *Service, title string, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:        uuid.New(),
		Title:     title,
		OwnerID:   owner.ID,
		Status:    models.ProjectOngoing,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.projects.Create(context.Background(), project))
	return project
}

func seedTask(t *testing.T, s *Service, title string, project *models.Project, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:         uuid.New(),
		Title:      title,
		Status:     models.TaskPending,
		AssignedTo: assignee.ID,
		DueDate:    time.Now().Add(48 * time.Hour).UTC(),
		ProjectID:  project.ID,
	}
	require.NoError(t, s.tasks.Create(context.Background(), task))
	return task
}

func asActor(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func projectStatus(t *testing.T, s *Service, id uuid.UUID) models.ProjectStatus {
	t.Helper()

	project, err := s.projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	return project.Status
}
