package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin := seedUser(t, s, "root", models.RoleAdmin)
	pm := seedUser(t, s, "alice", models.RolePM)
	dev := seedUser(t, s, "bob", models.RoleDeveloper)

	project, err := s.CreateProject(ctx, asActor(admin), CreateProjectInput{
		Title: "  Website  ", Description: "company site", OwnerID: pm.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Website", project.Title)
	assert.Equal(t, models.ProjectOngoing, project.Status)

	// duplicate title, different case
	_, err = s.CreateProject(ctx, asActor(admin), CreateProjectInput{
		Title: "website", OwnerID: pm.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Conflict, apperrors.KindOf(err))

	// owner must be a PM
	_, err = s.CreateProject(ctx, asActor(admin), CreateProjectInput{
		Title: "Backend", OwnerID: dev.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))

	// only an admin creates projects
	_, err = s.CreateProject(ctx, asActor(pm), CreateProjectInput{
		Title: "Backend", OwnerID: pm.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))
}

func TestRenameProject(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin := seedUser(t, s, "root", models.RoleAdmin)
	pm := seedUser(t, s, "alice", models.RolePM)
	projectA := seedProject(t, s, "Alpha", pm)
	seedProject(t, s, "Beta", pm)

	// renaming to its own title (case change only) conflicts with nothing
	renamed, err := s.RenameProject(ctx, asActor(admin), projectA.ID, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", renamed.Title)

	// renaming onto another project conflicts
	_, err = s.RenameProject(ctx, asActor(admin), projectA.ID, "BETA")
	require.Error(t, err)
	assert.Equal(t, apperrors.Conflict, apperrors.KindOf(err))

	// unknown project
	_, err = s.RenameProject(ctx, asActor(admin), uuid.New(), "Gamma")
	require.Error(t, err)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestDeleteProject_Cascades(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin := seedUser(t, s, "root", models.RoleAdmin)
	pm := seedUser(t, s, "alice", models.RolePM)
	dev := seedUser(t, s, "bob", models.RoleDeveloper)
	project := seedProject(t, s, "Website", pm)
	task := seedTask(t, s, "T1", project, dev)
	seedTask(t, s, "T2", project, dev)

	require.NoError(t, s.DeleteProject(ctx, asActor(admin), project.ID))

	_, err := s.projects.GetByID(ctx, project.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	// no orphan tasks survive
	_, err = s.tasks.GetByID(ctx, task.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	// later task operations on the dead project are NotFound
	_, err = s.CreateTask(ctx, asActor(pm), project.ID, CreateTaskInput{
		Title: "T3", AssignedTo: dev.ID, DueDate: task.DueDate,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestListProjects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pmA := seedUser(t, s, "alice", models.RolePM)
	pmB := seedUser(t, s, "carol", models.RolePM)
	seedProject(t, s, "Alpha", pmA)
	seedProject(t, s, "Beta", pmB)

	all, err := s.ListAllProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// owner summaries populated by the join
	assert.NotEmpty(t, all[0].Owner.Name)

	mine, err := s.ListOwnProjects(ctx, asActor(pmA))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alpha", mine[0].Title)
}
