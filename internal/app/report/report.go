// Package report computes period-scoped statistics over the task list.
// Aggregation is pure: callers pass the task snapshot and the current time,
// so the same inputs always produce the same summary.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

const topListLimit = 5

// UnknownPeriodError is returned when the period token has no window rule.
type UnknownPeriodError struct {
	Period string
}

func (e *UnknownPeriodError) Error() string {
	return fmt.Sprintf("unrecognized report period %q", e.Period)
}

// Summary is the report for one period window [WindowStart, WindowEnd).
// WindowStart is nil for the unbounded "all" period.
type Summary struct {
	Period      string     `json:"period"`
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   time.Time  `json:"window_end"`

	// AddedCount is tasks created inside the window.
	AddedCount int `json:"added_count"`
	// CompletedCount is tasks whose transition to done happened inside the
	// window, not tasks merely sitting in done.
	CompletedCount int `json:"completed_count"`
	// PendingCount is a snapshot of open tasks as of the window end,
	// irrespective of when they were created.
	PendingCount int `json:"pending_count"`

	Totals map[models.Status]int `json:"totals"`
	// RecentlyCompleted is done tasks, most recent transition first.
	RecentlyCompleted []models.Task `json:"recently_completed"`
	// UpcomingDeadlines is open tasks whose due date falls inside the
	// window, due date ascending. Tasks overdue from before the window
	// are not listed; empty for the unbounded "all" period.
	UpcomingDeadlines []models.Task `json:"upcoming_deadlines"`
}

// Generate summarizes tasks for the given period as of now.
func Generate(tasks []models.Task, period string, now time.Time) (Summary, error) {
	start, end, err := window(period, now)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Period:      period,
		WindowStart: start,
		WindowEnd:   end,
		Totals:      make(map[models.Status]int, len(models.Statuses())),
	}
	for _, status := range models.Statuses() {
		s.Totals[status] = 0
	}

	var completed []models.Task
	var withDeadline []models.Task

	for _, t := range tasks {
		s.Totals[t.Status]++

		if inWindow(t.CreatedAt, start, end) {
			s.AddedCount++
		}

		if t.Status == models.StatusDone {
			completed = append(completed, t)
			if inWindow(t.UpdatedAt, start, end) {
				s.CompletedCount++
			}
		}

		if t.Open() {
			s.PendingCount++
			if start != nil && t.DueDate != nil && !t.DueDate.Before(*start) && t.DueDate.Before(end) {
				withDeadline = append(withDeadline, t)
			}
		}
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].UpdatedAt.After(completed[j].UpdatedAt)
	})
	s.RecentlyCompleted = top(completed)

	sort.Slice(withDeadline, func(i, j int) bool {
		return withDeadline[i].DueDate.Before(*withDeadline[j].DueDate)
	})
	s.UpcomingDeadlines = top(withDeadline)

	return s, nil
}

// window returns [start, end) for a period token. daily covers the current
// calendar day; weekly and monthly are trailing windows ending now; all is
// unbounded (nil start).
func window(period string, now time.Time) (*time.Time, time.Time, error) {
	switch period {
	case "daily":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &start, start.AddDate(0, 0, 1), nil
	case "weekly":
		start := now.AddDate(0, 0, -7)
		return &start, now, nil
	case "monthly":
		start := now.AddDate(0, 0, -30)
		return &start, now, nil
	case "all":
		return nil, now, nil
	}
	return nil, time.Time{}, &UnknownPeriodError{Period: period}
}

func inWindow(t time.Time, start *time.Time, end time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	return t.Before(end)
}

func top(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	if len(tasks) > topListLimit {
		tasks = tasks[:topListLimit]
	}
	return tasks
}
