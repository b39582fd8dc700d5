package llm

import (
	"strings"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
)

var statusEnum = []string{"todo", "in_progress", "done"}

// Tools builds the tool schemas offered to the model. The schemas mirror
// the command contract, so anything the model emits that the validator
// would reject is already off-schema.
func Tools(contracts commands.Contracts) []Tool {
	return []Tool{
		function(commands.NameAddTask, "Add a new task to the task manager", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "The title of the task",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Optional description of the task",
				},
				"due_date": map[string]any{
					"type":        "string",
					"description": "Optional due date in YYYY-MM-DD format",
				},
				"priority": map[string]any{
					"type":        "string",
					"enum":        []string{"low", "medium", "high"},
					"description": "Priority level of the task (default: " + string(contracts.DefaultPriority) + ")",
				},
				"status": map[string]any{
					"type":        "string",
					"enum":        statusEnum,
					"description": "Initial status of the task (default: " + string(contracts.DefaultStatus) + ")",
				},
			},
			"required":             []string{"title"},
			"additionalProperties": false,
		}),
		function(commands.NameUpdateTaskStatus, "Update the status of an existing task, looked up by its exact title", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_title": map[string]any{
					"type":        "string",
					"description": "The exact title of the task to update",
				},
				"new_status": map[string]any{
					"type":        "string",
					"enum":        statusEnum,
					"description": "The new status for the task",
				},
			},
			"required":             []string{"task_title", "new_status"},
			"additionalProperties": false,
		}),
		function(commands.NameGetTasksByStatus, "Get tasks filtered by their current status", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"enum":        statusEnum,
					"description": "The status to filter tasks by",
				},
			},
			"required":             []string{"status"},
			"additionalProperties": false,
		}),
		function(commands.NameGetAllTasks, "Get all tasks grouped by their status", map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"required":             []string{},
			"additionalProperties": false,
		}),
		function(commands.NameGenerateTaskReport, "Generate a task report for the specified time period", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"period": map[string]any{
					"type":        "string",
					"enum":        contracts.Periods,
					"description": "The time period for the report: " + strings.Join(contracts.Periods, ", "),
				},
			},
			"required":             []string{"period"},
			"additionalProperties": false,
		}),
	}
}

func function(name, description string, parameters map[string]any) Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
