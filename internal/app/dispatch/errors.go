package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
	"github.com/Bakar31/ai-task-manager/internal/app/report"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
)

// ErrorKind classifies a failed outcome.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindNotFound   ErrorKind = "not_found"
	KindAmbiguous  ErrorKind = "ambiguous_reference"
	KindStore      ErrorKind = "store_error"
	KindTimedOut   ErrorKind = "timed_out"
)

// CommandError is the structured error half of an Outcome. Message is safe
// to show to the user; Field and Candidates carry the specifics needed for
// a clarification turn.
type CommandError struct {
	Kind       ErrorKind   `json:"kind"`
	Message    string      `json:"message"`
	Field      string      `json:"field,omitempty"`
	MatchCount int         `json:"match_count,omitempty"`
	Candidates []uuid.UUID `json:"candidates,omitempty"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// classify maps a typed failure onto its error kind. Anything unrecognized
// is a store failure: persistence errors are surfaced, never swallowed.
func classify(err error) *CommandError {
	var ve *commands.ValidationError
	if errors.As(err, &ve) {
		return &CommandError{Kind: KindValidation, Message: ve.Error(), Field: ve.Field}
	}

	var pe *report.UnknownPeriodError
	if errors.As(err, &pe) {
		return &CommandError{Kind: KindValidation, Message: pe.Error(), Field: "period"}
	}

	var nf *repositories.NotFoundError
	if errors.As(err, &nf) {
		return &CommandError{Kind: KindNotFound, Message: nf.Error()}
	}

	var amb *repositories.AmbiguousTitleError
	if errors.As(err, &amb) {
		return &CommandError{
			Kind:       KindAmbiguous,
			Message:    amb.Error(),
			MatchCount: len(amb.IDs),
			Candidates: amb.IDs,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &CommandError{Kind: KindTimedOut, Message: "the operation was abandoned before it completed"}
	}

	return &CommandError{Kind: KindStore, Message: fmt.Sprintf("task store failure: %v", err)}
}
