package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
)

const (
	statusListTTL = 15 * time.Second
	allTasksTTL   = 15 * time.Second
)

// EventPublisher receives a notification after every successful mutation.
// Publishing is best-effort: failures never fail the command.
type EventPublisher interface {
	Publish(ctx context.Context, action string, task models.Task) error
}

// TaskService executes task mutations and queries against the repository,
// keeping the cache and the event stream in sync. cache and events may be
// nil when the deployment runs without redis or kafka.
type TaskService struct {
	repo   repositories.TaskRepository
	cache  repositories.TaskCache
	events EventPublisher
}

func NewTaskService(repo repositories.TaskRepository, cache repositories.TaskCache, events EventPublisher) *TaskService {
	return &TaskService{
		repo:   repo,
		cache:  cache,
		events: events,
	}
}

// Add persists a new task. The repository assigns id and timestamps.
func (s *TaskService) Add(ctx context.Context, task models.Task) (*models.Task, error) {
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "task_created", task)

	return &task, nil
}

// UpdateStatusByTitle moves the single task matching title (exact,
// case-insensitive) to status. Zero matches fail with NotFoundError,
// multiple matches with AmbiguousTitleError carrying the candidate ids.
func (s *TaskService) UpdateStatusByTitle(ctx context.Context, title string, status models.Status) (*models.Task, error) {
	matches, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, &repositories.NotFoundError{Title: title}
	case 1:
	default:
		ids := make([]uuid.UUID, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, &repositories.AmbiguousTitleError{Title: title, IDs: ids}
	}

	task, err := s.repo.UpdateStatus(ctx, matches[0].ID, status)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "task_status_updated", *task)

	return task, nil
}

// ListByStatus returns tasks in one status, created_at ascending.
func (s *TaskService) ListByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	if s.cache != nil {
		if tasks, err := s.cache.GetByStatus(ctx, status); err == nil && tasks != nil {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetByStatus(ctx, status, tasks, statusListTTL)
	}

	return tasks, nil
}

// ListAll returns every task, created_at ascending.
func (s *TaskService) ListAll(ctx context.Context) ([]models.Task, error) {
	if s.cache != nil {
		if tasks, err := s.cache.GetAll(ctx); err == nil && tasks != nil {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetAll(ctx, tasks, allTasksTTL)
	}

	return tasks, nil
}

// AllByStatus returns every task grouped by status, preserving created_at
// order inside each group.
func (s *TaskService) AllByStatus(ctx context.Context) (map[models.Status][]models.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.Status][]models.Task, len(models.Statuses()))
	for _, status := range models.Statuses() {
		grouped[status] = []models.Task{}
	}
	for _, t := range tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	return grouped, nil
}

func (s *TaskService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}

func (s *TaskService) publish(ctx context.Context, action string, task models.Task) {
	if s.events != nil {
		_ = s.events.Publish(ctx, action, task)
	}
}
