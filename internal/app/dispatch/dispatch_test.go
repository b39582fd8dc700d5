package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/report"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
	"github.com/Bakar31/ai-task-manager/internal/app/services"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *repositories.MemoryTaskRepo) {
	t.Helper()
	repo := repositories.NewMemoryTaskRepo()
	service := services.NewTaskService(repo, nil, nil)
	return New(commands.DefaultContracts(), service), repo
}

func TestDispatchAddTask(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out := d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"title": "Buy groceries"})
	if !out.OK {
		t.Fatalf("expected success, got %+v", out.Error)
	}

	task, ok := out.Data.(*models.Task)
	if !ok {
		t.Fatalf("expected a task payload, got %T", out.Data)
	}
	if task.Title != "Buy groceries" {
		t.Errorf("unexpected title: %q", task.Title)
	}
	if task.Priority != models.PriorityMedium || task.Status != models.StatusTodo {
		t.Errorf("expected defaults, got priority=%s status=%s", task.Priority, task.Status)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Error("expected created_at == updated_at on creation")
	}
}

func TestDispatchValidationFailure(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out := d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"priority": "high"})
	if out.OK {
		t.Fatal("expected failure")
	}
	if out.Error.Kind != KindValidation {
		t.Errorf("expected validation_error, got %s", out.Error.Kind)
	}
	if out.Error.Field != "title" {
		t.Errorf("expected the offending field to be named, got %q", out.Error.Field)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out := d.Dispatch(context.Background(), "delete_task", map[string]any{"id": "1"})
	if out.OK || out.Error.Kind != KindValidation {
		t.Fatalf("expected validation_error for an unknown command, got %+v", out)
	}
}

func TestDispatchUpdateTaskStatus(t *testing.T) {
	t.Run("single match", func(t *testing.T) {
		d, repo := newTestDispatcher(t)
		repo.SetNow(steppingClock())

		d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"title": "Write report"})

		out := d.Dispatch(context.Background(), commands.NameUpdateTaskStatus, map[string]any{
			"task_title": "write REPORT",
			"new_status": "done",
		})
		if !out.OK {
			t.Fatalf("expected success, got %+v", out.Error)
		}

		task := out.Data.(*models.Task)
		if task.Status != models.StatusDone {
			t.Errorf("expected status done, got %s", task.Status)
		}
		if !task.UpdatedAt.After(task.CreatedAt) {
			t.Error("expected updated_at > created_at after a mutation")
		}
	})

	t.Run("zero matches", func(t *testing.T) {
		d, _ := newTestDispatcher(t)

		out := d.Dispatch(context.Background(), commands.NameUpdateTaskStatus, map[string]any{
			"task_title": "Missing",
			"new_status": "done",
		})
		if out.OK || out.Error.Kind != KindNotFound {
			t.Fatalf("expected not_found, got %+v", out)
		}
	})

	t.Run("multiple matches", func(t *testing.T) {
		d, _ := newTestDispatcher(t)

		d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"title": "Duplicate"})
		d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"title": "duplicate"})

		out := d.Dispatch(context.Background(), commands.NameUpdateTaskStatus, map[string]any{
			"task_title": "Duplicate",
			"new_status": "done",
		})
		if out.OK || out.Error.Kind != KindAmbiguous {
			t.Fatalf("expected ambiguous_reference, got %+v", out)
		}
		if out.Error.MatchCount != 2 || len(out.Error.Candidates) != 2 {
			t.Errorf("expected 2 candidates surfaced, got %+v", out.Error)
		}
	})
}

func TestDispatchGetTasksByStatus(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "one"})
	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "two", "status": "done"})

	out := d.Dispatch(ctx, commands.NameGetTasksByStatus, map[string]any{"status": "todo"})
	if !out.OK {
		t.Fatalf("expected success, got %+v", out.Error)
	}
	tasks := out.Data.([]models.Task)
	if len(tasks) != 1 || tasks[0].Title != "one" {
		t.Fatalf("unexpected listing: %+v", tasks)
	}

	t.Run("empty result is not an error", func(t *testing.T) {
		out := d.Dispatch(ctx, commands.NameGetTasksByStatus, map[string]any{"status": "in_progress"})
		if !out.OK {
			t.Fatalf("expected success, got %+v", out.Error)
		}
		if tasks := out.Data.([]models.Task); len(tasks) != 0 {
			t.Fatalf("expected an empty listing, got %+v", tasks)
		}
	})
}

func TestDispatchGetAllTasks(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "one"})
	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "two", "status": "in_progress"})

	out := d.Dispatch(ctx, commands.NameGetAllTasks, nil)
	if !out.OK {
		t.Fatalf("expected success, got %+v", out.Error)
	}

	grouped := out.Data.(map[models.Status][]models.Task)
	if len(grouped[models.StatusTodo]) != 1 || len(grouped[models.StatusInProgress]) != 1 || len(grouped[models.StatusDone]) != 0 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
}

func TestDispatchGenerateTaskReport(t *testing.T) {
	d, repo := newTestDispatcher(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 22, 15, 0, 0, 0, time.UTC)
	repo.SetNow(func() time.Time { return now.Add(-2 * time.Hour) })
	d.SetNow(func() time.Time { return now })

	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "one"})
	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "two"})
	d.Dispatch(ctx, commands.NameAddTask, map[string]any{"title": "three", "status": "done"})

	out := d.Dispatch(ctx, commands.NameGenerateTaskReport, map[string]any{"period": "daily"})
	if !out.OK {
		t.Fatalf("expected success, got %+v", out.Error)
	}

	s := out.Data.(report.Summary)
	if s.AddedCount != 3 {
		t.Errorf("expected added_count 3, got %d", s.AddedCount)
	}
	if s.CompletedCount != 1 {
		t.Errorf("expected completed_count 1, got %d", s.CompletedCount)
	}
	if s.PendingCount != 2 {
		t.Errorf("expected pending_count 2, got %d", s.PendingCount)
	}
}

func TestDispatchReportPeriodOutsideWindowRules(t *testing.T) {
	// A configured period with no window rule still fails as validation,
	// not as a store error.
	repo := repositories.NewMemoryTaskRepo()
	contracts := commands.DefaultContracts()
	contracts.Periods = append(contracts.Periods, "quarterly")
	d := New(contracts, services.NewTaskService(repo, nil, nil))

	out := d.Dispatch(context.Background(), commands.NameGenerateTaskReport, map[string]any{"period": "quarterly"})
	if out.OK || out.Error.Kind != KindValidation {
		t.Fatalf("expected validation_error, got %+v", out)
	}
	if out.Error.Field != "period" {
		t.Errorf("expected the period field to be named, got %q", out.Error.Field)
	}
}

// failingTaskRepo fails every operation with a fixed error.
type failingTaskRepo struct {
	repositories.TaskRepository
	err error
}

func (r failingTaskRepo) Create(context.Context, *models.Task) error { return r.err }

func (r failingTaskRepo) ListAll(context.Context) ([]models.Task, error) { return nil, r.err }

func TestDispatchStoreFailure(t *testing.T) {
	repoErr := errors.New("connection refused")
	d := New(commands.DefaultContracts(), services.NewTaskService(failingTaskRepo{err: repoErr}, nil, nil))

	out := d.Dispatch(context.Background(), commands.NameAddTask, map[string]any{"title": "doomed"})
	if out.OK || out.Error.Kind != KindStore {
		t.Fatalf("expected store_error, got %+v", out)
	}
	if !strings.Contains(out.Error.Message, "connection refused") {
		t.Errorf("expected the store failure to be surfaced, got %q", out.Error.Message)
	}

	t.Run("report over a failing store", func(t *testing.T) {
		out := d.Dispatch(context.Background(), commands.NameGenerateTaskReport, map[string]any{"period": "daily"})
		if out.OK || out.Error.Kind != KindStore {
			t.Fatalf("expected store_error, got %+v", out)
		}
	})
}

func TestTimedOutOutcome(t *testing.T) {
	out := TimedOut()
	if out.OK || out.Error.Kind != KindTimedOut {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func steppingClock() func() time.Time {
	now := time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}
