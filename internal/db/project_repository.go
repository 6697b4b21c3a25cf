package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
)

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// WithTx returns a copy bound to tx so multi-step writes observe a single
// transaction.
func (r *ProjectRepository) WithTx(tx *sql.Tx) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (id, title, description, owner_id, status, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(
		ctx, query, project.ID, project.Title, project.Description,
		project.OwnerID, project.Status, project.CreatedAt)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT id, title, description, owner_id, status, created_at
	 FROM projects WHERE id = $1`
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Title, &project.Description,
		&project.OwnerID, &project.Status, &project.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

const projectWithOwnerQuery = `
SELECT p.id, p.title, p.description, p.owner_id, p.status, p.created_at,
       u.id, u.name, u.email, u.role
 FROM projects p JOIN users u ON u.id = p.owner_id`

func (r *ProjectRepository) ListAll(ctx context.Context) ([]*models.ProjectWithOwner, error) {
	rows, err := r.db.QueryContext(ctx, projectWithOwnerQuery+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.scanProjectsWithOwner(rows)
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.ProjectWithOwner, error) {
	rows, err := r.db.QueryContext(
		ctx, projectWithOwnerQuery+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return r.scanProjectsWithOwner(rows)
}

func (r *ProjectRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.exec(ctx, `UPDATE projects SET title = $1 WHERE id = $2`, title, id)
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) error {
	return r.exec(ctx, `UPDATE projects SET status = $1 WHERE id = $2`, status, id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
}

// TitleExists runs the case-insensitive global uniqueness check. Pass
// uuid.Nil to exclude nothing.
func (r *ProjectRepository) TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE lower(title) = lower($1) AND id <> $2)`
	err := r.db.QueryRowContext(ctx, query, title, excludeID).Scan(&exists)
	return exists, err
}

func (r *ProjectRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *ProjectRepository) scanProjectsWithOwner(rows *sql.Rows) ([]*models.ProjectWithOwner, error) {
	defer rows.Close()

	var projects []*models.ProjectWithOwner
	for rows.Next() {
		p := &models.ProjectWithOwner{}
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.Status, &p.CreatedAt,
			&p.Owner.ID, &p.Owner.Name, &p.Owner.Email, &p.Owner.Role,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}
