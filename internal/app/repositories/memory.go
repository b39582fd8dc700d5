package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// MemoryTaskRepo is an in-process TaskRepository. It lets the agent run
// without a database and backs the unit tests. Tasks are kept in insertion
// order, which is also created_at order.
type MemoryTaskRepo struct {
	mu    sync.Mutex
	tasks []models.Task
	now   func() time.Time
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{now: time.Now}
}

// SetNow replaces the clock. Tests use it to make timestamps deterministic.
func (r *MemoryTaskRepo) SetNow(now func() time.Time) {
	r.now = now
}

func (r *MemoryTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = uuid.New()
	now := r.now().UTC().Truncate(time.Microsecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *MemoryTaskRepo) FindByTitle(_ context.Context, title string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Task
	for _, t := range r.tasks {
		if strings.EqualFold(t.Title, title) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryTaskRepo) ListByStatus(_ context.Context, status models.Status) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Task
	for _, t := range r.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryTaskRepo) ListAll(_ context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *MemoryTaskRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.Status) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Status = status
			r.tasks[i].UpdatedAt = r.now().UTC().Truncate(time.Microsecond)
			t := r.tasks[i]
			return &t, nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

func (r *MemoryTaskRepo) Close() error {
	return nil
}
