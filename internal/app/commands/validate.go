package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// ValidationError reports a missing, mistyped, or out-of-range argument.
// Field names the offending argument ("command" for an unrecognized name).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Contracts carries the configured parts of the command contract: the
// recognized report periods and the defaults applied when add_task omits
// priority or status.
type Contracts struct {
	Periods         []string
	DefaultPriority models.Priority
	DefaultStatus   models.Status
}

// DefaultContracts returns the contract configuration used when nothing
// overrides it: daily/weekly/monthly/all periods, medium priority, todo status.
func DefaultContracts() Contracts {
	return Contracts{
		Periods:         []string{"daily", "weekly", "monthly", "all"},
		DefaultPriority: models.PriorityMedium,
		DefaultStatus:   models.StatusTodo,
	}
}

// ValidPeriod reports whether the token is a recognized period.
func (c Contracts) ValidPeriod(period string) bool {
	for _, p := range c.Periods {
		if p == period {
			return true
		}
	}
	return false
}

// Parse validates a raw command against the contract and returns the typed
// variant. It is pure: no I/O, no side effects. Argument values arrive as
// decoded JSON, so strings are the only accepted scalar type.
func (c Contracts) Parse(name string, args map[string]any) (Command, error) {
	switch name {
	case NameAddTask:
		return c.parseAddTask(args)
	case NameUpdateTaskStatus:
		return parseUpdateTaskStatus(args)
	case NameGetTasksByStatus:
		return parseGetTasksByStatus(args)
	case NameGetAllTasks:
		return GetAllTasks{}, nil
	case NameGenerateTaskReport:
		return c.parseGenerateTaskReport(args)
	}
	return nil, &ValidationError{Field: "command", Reason: fmt.Sprintf("unknown command %q", name)}
}

func (c Contracts) parseAddTask(args map[string]any) (Command, error) {
	title, err := requiredString(args, "title")
	if err != nil {
		return nil, err
	}

	cmd := AddTask{
		Title:    title,
		Priority: c.DefaultPriority,
		Status:   c.DefaultStatus,
	}

	if raw, ok := args["description"]; ok {
		s, err := asString("description", raw)
		if err != nil {
			return nil, err
		}
		cmd.Description = s
	}

	if raw, ok := args["due_date"]; ok {
		s, err := asString("due_date", raw)
		if err != nil {
			return nil, err
		}
		if s != "" {
			d, err := time.Parse(models.DueDateLayout, s)
			if err != nil {
				return nil, &ValidationError{Field: "due_date", Reason: "must be a date in YYYY-MM-DD format"}
			}
			cmd.DueDate = &d
		}
	}

	if raw, ok := args["priority"]; ok {
		s, err := asString("priority", raw)
		if err != nil {
			return nil, err
		}
		p, ok := models.ParsePriority(s)
		if !ok {
			return nil, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
		}
		cmd.Priority = p
	}

	if raw, ok := args["status"]; ok {
		st, err := statusArg("status", raw)
		if err != nil {
			return nil, err
		}
		cmd.Status = st
	}

	return cmd, nil
}

func parseUpdateTaskStatus(args map[string]any) (Command, error) {
	title, err := requiredString(args, "task_title")
	if err != nil {
		return nil, err
	}

	raw, ok := args["new_status"]
	if !ok {
		return nil, &ValidationError{Field: "new_status", Reason: "required argument is missing"}
	}
	st, err := statusArg("new_status", raw)
	if err != nil {
		return nil, err
	}

	return UpdateTaskStatus{TaskTitle: title, NewStatus: st}, nil
}

func parseGetTasksByStatus(args map[string]any) (Command, error) {
	raw, ok := args["status"]
	if !ok {
		return nil, &ValidationError{Field: "status", Reason: "required argument is missing"}
	}
	st, err := statusArg("status", raw)
	if err != nil {
		return nil, err
	}
	return GetTasksByStatus{Status: st}, nil
}

func (c Contracts) parseGenerateTaskReport(args map[string]any) (Command, error) {
	period, err := requiredString(args, "period")
	if err != nil {
		return nil, err
	}
	period = strings.ToLower(period)
	if !c.ValidPeriod(period) {
		return nil, &ValidationError{
			Field:  "period",
			Reason: fmt.Sprintf("must be one of %s", strings.Join(c.Periods, ", ")),
		}
	}
	return GenerateTaskReport{Period: period}, nil
}

func requiredString(args map[string]any, field string) (string, error) {
	raw, ok := args[field]
	if !ok {
		return "", &ValidationError{Field: field, Reason: "required argument is missing"}
	}
	s, err := asString(field, raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return s, nil
}

func asString(field string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return s, nil
}

func statusArg(field string, raw any) (models.Status, error) {
	s, err := asString(field, raw)
	if err != nil {
		return "", err
	}
	st, ok := models.ParseStatus(s)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "must be one of todo, in_progress, done"}
	}
	return st, nil
}
