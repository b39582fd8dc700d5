package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// TaskRepository is the storage contract for tasks. The store owns identity
// and timestamps: Create assigns the id and sets created_at == updated_at,
// UpdateStatus refreshes updated_at.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByTitle(ctx context.Context, title string) ([]models.Task, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Task, error)
	Close() error
}

type PostgresTaskRepo struct {
	db  *sql.DB
	now func() time.Time
}

const taskColumns = "id, title, description, due_date, priority, status, created_at, updated_at"

func NewPostgresTaskRepo(dsn string) (*PostgresTaskRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date DATE,
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'todo',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return nil, err
	}

	return &PostgresTaskRepo{db: db, now: time.Now}, nil
}

func (r *PostgresTaskRepo) Create(ctx context.Context, task *models.Task) error {
	task.ID = uuid.New()
	now := r.now().UTC().Truncate(time.Microsecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		task.ID, task.Title, task.Description, task.DueDate, task.Priority, task.Status, task.CreatedAt, task.UpdatedAt)
	return err
}

func (r *PostgresTaskRepo) FindByTitle(ctx context.Context, title string) ([]models.Task, error) {
	return r.query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE LOWER(title) = LOWER($1) ORDER BY created_at ASC", title)
}

func (r *PostgresTaskRepo) ListByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return r.query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status = $1 ORDER BY created_at ASC", status)
}

func (r *PostgresTaskRepo) ListAll(ctx context.Context) ([]models.Task, error) {
	return r.query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at ASC")
}

func (r *PostgresTaskRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE tasks SET status = $2, updated_at = $3 WHERE id = $1 RETURNING "+taskColumns,
		id, status, r.now().UTC().Truncate(time.Microsecond))

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *PostgresTaskRepo) Close() error {
	return r.db.Close()
}

func (r *PostgresTaskRepo) query(ctx context.Context, q string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
