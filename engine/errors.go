package engine

import (
	"fmt"
	"strings"
)

// InvalidChoiceError is returned when a choice id is not in the session's
// current catalog. Available lists the ids that are.
type InvalidChoiceError struct {
	ChoiceID  string
	Available []string
}

func (e *InvalidChoiceError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("choice %q is not available: the story has ended", e.ChoiceID)
	}
	return fmt.Sprintf("choice %q is not available (choose one of: %s)", e.ChoiceID, strings.Join(e.Available, ", "))
}

// AlreadyResolvingError is returned when a session already has a
// resolution in flight.
type AlreadyResolvingError struct {
	SessionID string
}

func (e *AlreadyResolvingError) Error() string {
	return fmt.Sprintf("session %s is already resolving a choice", e.SessionID)
}
