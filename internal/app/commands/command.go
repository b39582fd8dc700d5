// Package commands defines the closed set of operations the dispatcher
// accepts and the validation that turns a raw (name, argument map) pair
// coming from the language model into a typed command.
package commands

import (
	"time"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// Command names as they appear on the wire.
const (
	NameAddTask            = "add_task"
	NameUpdateTaskStatus   = "update_task_status"
	NameGetTasksByStatus   = "get_tasks_by_status"
	NameGetAllTasks        = "get_all_tasks"
	NameGenerateTaskReport = "generate_task_report"
)

// Command is the closed union of recognized operations. Only types in this
// package implement it, so a dispatcher switch over variants is exhaustive.
type Command interface {
	Name() string
}

// AddTask creates a new task.
type AddTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
	Status      models.Status
}

func (AddTask) Name() string { return NameAddTask }

// UpdateTaskStatus moves the task matched by title to a new status.
type UpdateTaskStatus struct {
	TaskTitle string
	NewStatus models.Status
}

func (UpdateTaskStatus) Name() string { return NameUpdateTaskStatus }

// GetTasksByStatus lists tasks in one status.
type GetTasksByStatus struct {
	Status models.Status
}

func (GetTasksByStatus) Name() string { return NameGetTasksByStatus }

// GetAllTasks lists every task grouped by status.
type GetAllTasks struct{}

func (GetAllTasks) Name() string { return NameGetAllTasks }

// GenerateTaskReport summarizes task activity for a period.
type GenerateTaskReport struct {
	Period string
}

func (GenerateTaskReport) Name() string { return NameGenerateTaskReport }
