package wizard

import (
	"context"
	"encoding/json"
)

// StepID is a unique identifier for a step within a workflow.
type StepID string

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

// StepResult represents the outcome of advancing a step.
type StepResult struct {
	// NextStep moves the session forward when set.
	NextStep StepID
	// Complete marks the workflow as finished; the session state is
	// destroyed and Data is handed back to the caller.
	Complete bool
	// Data is step output for the caller (e.g. confirmation view fields).
	Data interface{}
	// Message is an informational note surfaced alongside the new state.
	Message string
	// Err keeps the session in the current step and is surfaced to the
	// caller. Wrap ErrValidation / ErrProvider so handlers can map it.
	Err error
}

// Step defines the interface for a single workflow step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Order returns the 1-based position of the step; backward
	// transitions target Order()-1.
	Order() int

	// Advance processes the submitted step payload against the session
	// state. Validation failures must be returned before any network
	// call is made.
	Advance(ctx context.Context, state *State, payload json.RawMessage) StepResult
}

// Workflow defines the interface for a complete workflow.
type Workflow interface {
	// ID returns the unique identifier for this workflow.
	ID() WorkflowID

	// InitialStep returns the first step of the workflow.
	InitialStep() StepID

	// GetStep returns a step by its ID.
	GetStep(id StepID) (Step, bool)

	// StepByOrder returns the step at a 1-based position.
	StepByOrder(order int) (Step, bool)

	// Steps returns all steps in this workflow.
	Steps() []Step
}

// StateStorage handles persistence of wizard session states.
type StateStorage interface {
	// Save persists a session's state.
	Save(ctx context.Context, state *State) error

	// Load retrieves a session's state.
	Load(ctx context.Context, sessionID string) (*State, error)

	// Delete removes a session's state.
	Delete(ctx context.Context, sessionID string) error

	// Exists checks if a session has a saved state.
	Exists(ctx context.Context, sessionID string) (bool, error)
}
