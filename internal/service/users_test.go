package service

import (
	"context"
	"testing"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_RoleHierarchy(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin := seedUser(t, s, "root", models.RoleAdmin)
	pm := seedUser(t, s, "alice", models.RolePM)
	dev := seedUser(t, s, "bob", models.RoleDeveloper)

	// admin creates a pm
	user, err := s.Register(ctx, asActor(admin), RegisterInput{
		Name: "Pat", Email: "pat@example.com", Password: "secret123", Role: "pm",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolePM, user.Role)

	// pm creates a developer
	_, err = s.Register(ctx, asActor(pm), RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret123", Role: "developer",
	})
	require.NoError(t, err)

	// pm cannot create a pm
	_, err = s.Register(ctx, asActor(pm), RegisterInput{
		Name: "Mallory", Email: "mallory@example.com", Password: "secret123", Role: "pm",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))

	// developers create nobody
	_, err = s.Register(ctx, asActor(dev), RegisterInput{
		Name: "Trent", Email: "trent@example.com", Password: "secret123", Role: "developer",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))

	// nobody registers an admin
	_, err = s.Register(ctx, asActor(admin), RegisterInput{
		Name: "Root2", Email: "root2@example.com", Password: "secret123", Role: "admin",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
}

func TestRegister_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin := seedUser(t, s, "root", models.RoleAdmin)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing fields", RegisterInput{Name: "X", Role: "pm"}},
		{"bad email", RegisterInput{Name: "X", Email: "not-an-email", Password: "secret123", Role: "pm"}},
		{"short password", RegisterInput{Name: "X", Email: "x@example.com", Password: "abc", Role: "pm"}},
		{"bad role", RegisterInput{Name: "X", Email: "x@example.com", Password: "secret123", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(ctx, asActor(admin), tc.in)
			require.Error(t, err)
			assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
		})
	}

	// duplicate email, case-insensitive
	_, err := s.Register(ctx, asActor(admin), RegisterInput{
		Name: "Y", Email: "Root@Example.com", Password: "secret123", Role: "pm",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Conflict, apperrors.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	seedUser(t, s, "alice", models.RolePM) // password secret123

	user, err := s.Authenticate(ctx, "alice@example.com", "secret123", "pm")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)

	// wrong role for the right credentials
	_, err = s.Authenticate(ctx, "alice@example.com", "secret123", "developer")
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))

	// wrong password
	_, err = s.Authenticate(ctx, "alice@example.com", "nope-nope", "pm")
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))

	// unknown email
	_, err = s.Authenticate(ctx, "ghost@example.com", "secret123", "pm")
	require.Error(t, err)
	assert.Equal(t, apperrors.Authorization, apperrors.KindOf(err))
}

func TestAssignableUsers(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pm := seedUser(t, s, "alice", models.RolePM)
	seedUser(t, s, "bob", models.RoleDeveloper)
	seedUser(t, s, "carl", models.RoleDeveloper)
	seedUser(t, s, "root", models.RoleAdmin)
	seedUser(t, s, "paula", models.RolePM) // other PMs are not assignable here

	users, err := s.ListAssignableUsers(ctx, pm.ID)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, pm.ID, users[0].ID) // the PM themselves comes first

	managed, err := s.ListManagedUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, managed, 4) // every pm and developer, no admins
}
