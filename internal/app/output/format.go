// Package output renders dispatch outcomes as plain text for the
// conversation loop.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Bakar31/ai-task-manager/internal/app/dispatch"
	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/report"
)

// Render writes an outcome in whatever shape its data has.
func Render(w io.Writer, out dispatch.Outcome) {
	if !out.OK {
		FormatError(w, out.Error)
		return
	}
	switch v := out.Data.(type) {
	case *models.Task:
		FormatTask(w, 1, *v)
	case []models.Task:
		FormatTasks(w, v)
	case map[models.Status][]models.Task:
		FormatGrouped(w, v)
	case report.Summary:
		FormatSummary(w, v)
	default:
		fmt.Fprintln(w, "ok")
	}
}

// FormatTask writes one numbered task line.
// Format: "{N:>4}  {TITLE}  [status, priority]" with the due date appended
// when present.
func FormatTask(w io.Writer, num int, task models.Task) {
	line := fmt.Sprintf("%4d  %s  [%s, %s]", num, normalizeTitle(task.Title), task.Status, task.Priority)
	if task.DueDate != nil {
		line += "  due " + task.DueDate.Format(models.DueDateLayout)
	}
	fmt.Fprintln(w, line)
}

// FormatTasks writes a numbered task listing, or a placeholder when empty.
func FormatTasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatGrouped writes every status section in lifecycle order.
func FormatGrouped(w io.Writer, grouped map[models.Status][]models.Task) {
	for _, status := range models.Statuses() {
		fmt.Fprintf(w, "%s:\n", status)
		FormatTasks(w, grouped[status])
	}
}

// FormatSummary writes a report as readable text.
func FormatSummary(w io.Writer, s report.Summary) {
	fmt.Fprintf(w, "report (%s)\n", s.Period)
	if s.WindowStart != nil {
		fmt.Fprintf(w, "window: %s .. %s\n",
			s.WindowStart.Format("2006-01-02 15:04"), s.WindowEnd.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(w, "window: all time up to %s\n", s.WindowEnd.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "added: %d  completed: %d  pending: %d\n", s.AddedCount, s.CompletedCount, s.PendingCount)
	fmt.Fprintf(w, "totals: todo %d, in_progress %d, done %d\n",
		s.Totals[models.StatusTodo], s.Totals[models.StatusInProgress], s.Totals[models.StatusDone])

	if len(s.RecentlyCompleted) > 0 {
		fmt.Fprintln(w, "recently completed:")
		FormatTasks(w, s.RecentlyCompleted)
	}
	if len(s.UpcomingDeadlines) > 0 {
		fmt.Fprintln(w, "upcoming deadlines:")
		FormatTasks(w, s.UpcomingDeadlines)
	}
}

// FormatError writes an actionable message for a failed outcome.
func FormatError(w io.Writer, e *dispatch.CommandError) {
	switch e.Kind {
	case dispatch.KindAmbiguous:
		ids := make([]string, len(e.Candidates))
		for i, id := range e.Candidates {
			ids[i] = id.String()
		}
		fmt.Fprintf(w, "error: %s (candidates: %s)\n", e.Message, strings.Join(ids, ", "))
	default:
		fmt.Fprintf(w, "error: %s\n", e.Message)
	}
}

// normalizeTitle keeps titles on one line and never blank.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
