package repositories

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError is returned when a lookup matches no task.
type NotFoundError struct {
	Title string
	ID    uuid.UUID
}

func (e *NotFoundError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("no task found with title %q", e.Title)
	}
	return fmt.Sprintf("no task found with id %s", e.ID)
}

// AmbiguousTitleError is returned when a title lookup matches more than one
// task. IDs carries the candidates so the caller can disambiguate.
type AmbiguousTitleError struct {
	Title string
	IDs   []uuid.UUID
}

func (e *AmbiguousTitleError) Error() string {
	return fmt.Sprintf("%d tasks share the title %q", len(e.IDs), e.Title)
}
