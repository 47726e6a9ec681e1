package wizard

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("wizard session not found")
	// ErrBusy is returned when a request arrives while another one for
	// the same session is still in flight.
	ErrBusy = errors.New("request already in flight")
	// ErrValidation wraps field-level failures; they never reach a
	// network collaborator.
	ErrValidation = errors.New("validation failed")
	// ErrProvider wraps failures reported by an external provider; the
	// message is surfaced verbatim and the step may be retried.
	ErrProvider = errors.New("provider error")
)
