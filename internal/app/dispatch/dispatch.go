// Package dispatch routes validated commands to their handlers and wraps
// every result, success or failure, in a structured Outcome. No error
// crosses the command boundary unclassified.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/report"
	"github.com/Bakar31/ai-task-manager/internal/app/services"
)

// Outcome is the result of executing one command.
type Outcome struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *CommandError `json:"error,omitempty"`
}

// Dispatcher validates raw commands against the contract and executes them
// against the task service. The clock is injectable so report windows are
// deterministic under test.
type Dispatcher struct {
	contracts commands.Contracts
	service   *services.TaskService
	now       func() time.Time
}

func New(contracts commands.Contracts, service *services.TaskService) *Dispatcher {
	return &Dispatcher{
		contracts: contracts,
		service:   service,
		now:       time.Now,
	}
}

// SetNow replaces the clock used for report windows.
func (d *Dispatcher) SetNow(now func() time.Time) {
	d.now = now
}

// Dispatch validates a raw (name, argument map) pair and executes it.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) Outcome {
	cmd, err := d.contracts.Parse(name, args)
	if err != nil {
		return Fail(err)
	}
	return d.Execute(ctx, cmd)
}

// Execute runs a validated command. Exactly one handler exists per variant.
func (d *Dispatcher) Execute(ctx context.Context, cmd commands.Command) Outcome {
	switch c := cmd.(type) {
	case commands.AddTask:
		task, err := d.service.Add(ctx, models.Task{
			Title:       c.Title,
			Description: c.Description,
			DueDate:     c.DueDate,
			Priority:    c.Priority,
			Status:      c.Status,
		})
		if err != nil {
			return Fail(err)
		}
		return ok(task)

	case commands.UpdateTaskStatus:
		task, err := d.service.UpdateStatusByTitle(ctx, c.TaskTitle, c.NewStatus)
		if err != nil {
			return Fail(err)
		}
		return ok(task)

	case commands.GetTasksByStatus:
		tasks, err := d.service.ListByStatus(ctx, c.Status)
		if err != nil {
			return Fail(err)
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		return ok(tasks)

	case commands.GetAllTasks:
		grouped, err := d.service.AllByStatus(ctx)
		if err != nil {
			return Fail(err)
		}
		return ok(grouped)

	case commands.GenerateTaskReport:
		tasks, err := d.service.ListAll(ctx)
		if err != nil {
			return Fail(err)
		}
		summary, err := report.Generate(tasks, c.Period, d.now())
		if err != nil {
			return Fail(err)
		}
		return ok(summary)
	}

	return Fail(&commands.ValidationError{
		Field:  "command",
		Reason: fmt.Sprintf("no handler for command %q", cmd.Name()),
	})
}

// Fail wraps any error in a failed Outcome with its classified kind.
func Fail(err error) Outcome {
	return Outcome{OK: false, Error: classify(err)}
}

// TimedOut is the outcome reported when the collaborator boundary exceeded
// its time budget. The store was not mutated.
func TimedOut() Outcome {
	return Outcome{OK: false, Error: &CommandError{
		Kind:    KindTimedOut,
		Message: "the request took too long and was abandoned",
	}}
}

func ok(data any) Outcome {
	return Outcome{OK: true, Data: data}
}
