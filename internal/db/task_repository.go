package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
)

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) WithTx(tx *sql.Tx) *TaskRepository {
	return &TaskRepository{db: tx}
}

const taskColumns = `id, title, status, assigned_to, due_date, project_id, initiated_at, completed_at`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (id, title, status, assigned_to, due_date, project_id, initiated_at, completed_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(
		ctx, query, task.ID, task.Title, task.Status, task.AssignedTo,
		task.DueDate, task.ProjectID, nullTime(task.InitiatedAt), nullTime(task.CompletedAt))
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task := &models.Task{}
	var initiated, completed sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Status, &task.AssignedTo,
		&task.DueDate, &task.ProjectID, &initiated, &completed,
	)
	if err != nil {
		return nil, err
	}
	task.InitiatedAt = timePtr(initiated)
	task.CompletedAt = timePtr(completed)
	return task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		var initiated, completed sql.NullTime
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Status, &task.AssignedTo,
			&task.DueDate, &task.ProjectID, &initiated, &completed,
		); err != nil {
			return nil, err
		}
		task.InitiatedAt = timePtr(initiated)
		task.CompletedAt = timePtr(completed)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListByProjectWithAssignee(ctx context.Context, projectID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	query := `
SELECT t.id, t.title, t.status, t.assigned_to, t.due_date, t.project_id,
       t.initiated_at, t.completed_at, u.id, u.name, u.email, u.role
 FROM tasks t JOIN users u ON u.id = t.assigned_to
 WHERE t.project_id = $1 ORDER BY t.due_date`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.TaskWithAssignee
	for rows.Next() {
		t := &models.TaskWithAssignee{}
		var initiated, completed sql.NullTime
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Status, &t.AssignedTo, &t.DueDate, &t.ProjectID,
			&initiated, &completed,
			&t.Assignee.ID, &t.Assignee.Name, &t.Assignee.Email, &t.Assignee.Role,
		); err != nil {
			return nil, err
		}
		t.InitiatedAt = timePtr(initiated)
		t.CompletedAt = timePtr(completed)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.TaskWithProject, error) {
	query := `
SELECT t.id, t.title, t.status, t.assigned_to, t.due_date, t.project_id,
       t.initiated_at, t.completed_at,
       u.id, u.name, u.email, u.role,
       p.id, p.title, p.status
 FROM tasks t
 JOIN users u ON u.id = t.assigned_to
 JOIN projects p ON p.id = t.project_id
 WHERE t.assigned_to = $1 ORDER BY t.due_date`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.TaskWithProject
	for rows.Next() {
		t := &models.TaskWithProject{}
		var initiated, completed sql.NullTime
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Status, &t.AssignedTo, &t.DueDate, &t.ProjectID,
			&initiated, &completed,
			&t.Assignee.ID, &t.Assignee.Name, &t.Assignee.Email, &t.Assignee.Role,
			&t.Project.ID, &t.Project.Title, &t.Project.Status,
		); err != nil {
			return nil, err
		}
		t.InitiatedAt = timePtr(initiated)
		t.CompletedAt = timePtr(completed)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes every mutable field; callers decide what changed.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET title = $1, status = $2, assigned_to = $3,
	 due_date = $4, initiated_at = $5, completed_at = $6 WHERE id = $7`
	return r.exec(ctx, query, task.Title, task.Status, task.AssignedTo,
		task.DueDate, nullTime(task.InitiatedAt), nullTime(task.CompletedAt), task.ID)
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
}

// DeleteByProject removes a project's whole task set. Zero rows is fine, a
// project may have no tasks.
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = $1`, projectID)
	return err
}

// TitleExistsInProject runs the case-insensitive project-scoped uniqueness
// check. Pass uuid.Nil to exclude nothing.
func (r *TaskRepository) TitleExistsInProject(ctx context.Context, projectID uuid.UUID, title string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tasks
	 WHERE project_id = $1 AND lower(title) = lower($2) AND id <> $3)`
	err := r.db.QueryRowContext(ctx, query, projectID, title, excludeID).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task not found: %w", sql.ErrNoRows)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	ts := t.Time
	return &ts
}
