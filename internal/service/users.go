package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a new account subject to the role hierarchy: admins
// create PMs or developers, PMs create only developers.
func (s *Service) Register(ctx context.Context, actor Actor, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := models.Role(strings.ToLower(strings.TrimSpace(in.Role)))

	if name == "" || email == "" || in.Password == "" || role == "" {
		return nil, apperrors.New(apperrors.Validation, "All fields are required")
	}
	if !role.Assignable() {
		return nil, apperrors.New(apperrors.Validation, "Invalid role specified")
	}
	if err := Authorize(actor, CapCreateAccount, Target{NewRole: role}); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.Validation, "Invalid email format")
	}
	if len(in.Password) < 6 {
		return nil, apperrors.New(apperrors.Validation, "Password must be at least 6 characters long")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, unexpected(err)
	}
	if exists {
		return nil, apperrors.New(apperrors.Conflict, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.Conflict, "User already exists")
		}
		return nil, unexpected(err)
	}
	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate verifies email, password and the role the caller claims to
// log in as. A role mismatch is reported the same way as an unknown email so
// the response does not reveal which part was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	role = strings.ToLower(strings.TrimSpace(role))

	if email == "" || strings.TrimSpace(password) == "" || role == "" {
		return nil, apperrors.New(apperrors.Validation, "Email, password, and role are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.Validation, "Invalid email format")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.Authorization, "Invalid credentials or role mismatch")
		}
		return nil, unexpected(err)
	}
	if user.Role != models.Role(role) {
		return nil, apperrors.New(apperrors.Authorization, "Invalid credentials or role mismatch")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.New(apperrors.Authorization, "Invalid email or password")
	}
	return user, nil
}

// ListManagedUsers returns every PM and developer, for the admin overview.
func (s *Service) ListManagedUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListManaged(ctx)
	if err != nil {
		return nil, unexpected(err)
	}
	return summaries(users), nil
}

// ListAssignableUsers returns the candidates a PM may assign tasks to: the
// PM themselves plus every developer.
func (s *Service) ListAssignableUsers(ctx context.Context, pmID uuid.UUID) ([]models.UserSummary, error) {
	pm, err := s.users.GetByID(ctx, pmID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	developers, err := s.users.ListByRole(ctx, models.RoleDeveloper)
	if err != nil {
		return nil, unexpected(err)
	}
	result := []models.UserSummary{pm.Summary()}
	for _, dev := range developers {
		result = append(result, dev.Summary())
	}
	return result, nil
}

func summaries(users []*models.User) []models.UserSummary {
	result := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result
}
