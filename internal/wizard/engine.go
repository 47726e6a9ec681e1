package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Outcome is what the engine reports back to the transport layer after
// a session was started, advanced or moved back.
type Outcome struct {
	SessionID  string      `json:"session_id"`
	Step       StepID      `json:"step"`
	StepNumber int         `json:"step_number"`
	Message    string      `json:"message,omitempty"`
	Complete   bool        `json:"complete"`
	Data       interface{} `json:"data,omitempty"`
}

// Engine manages workflow execution and session state persistence.
type Engine struct {
	workflows map[WorkflowID]Workflow
	storage   StateStorage
	log       *slog.Logger
}

// NewEngine creates a new wizard engine.
func NewEngine(storage StateStorage, log *slog.Logger) *Engine {
	return &Engine{
		workflows: make(map[WorkflowID]Workflow),
		storage:   storage,
		log:       log,
	}
}

// RegisterWorkflow adds a workflow to the engine.
func (e *Engine) RegisterWorkflow(w Workflow) {
	e.workflows[w.ID()] = w
	e.log.Info("registered workflow", slog.String("workflow_id", string(w.ID())))
}

// Start begins a new session. The authorization context is resolved by
// the caller once, at session start.
func (e *Engine) Start(ctx context.Context, workflowID WorkflowID, superadmin bool) (*Outcome, error) {
	w, ok := e.workflows[workflowID]
	if !ok {
		return nil, fmt.Errorf("workflow not found: %s", workflowID)
	}

	state := NewState(workflowID, w.InitialStep(), superadmin)

	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving initial state: %w", err)
	}

	e.log.Info("starting wizard session",
		slog.String("session_id", state.SessionID),
		slog.String("workflow_id", string(workflowID)),
		slog.Bool("superadmin", superadmin),
	)

	return e.outcome(w, state, "", false, nil), nil
}

// Advance routes the submitted payload to the session's current step.
// A second advance for the same session while one is still in flight is
// rejected with ErrBusy.
func (e *Engine) Advance(ctx context.Context, sessionID string, payload json.RawMessage) (*Outcome, error) {
	state, w, step, err := e.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if state.Busy {
		return nil, ErrBusy
	}
	state.Busy = true
	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving in-flight guard: %w", err)
	}

	result := step.Advance(ctx, state, payload)

	state.Busy = false
	state.UpdatedAt = time.Now()

	return e.processResult(ctx, w, state, result)
}

// Back moves the session one step backward, unconditionally and without
// clearing any collected data. Has no effect on the first step.
func (e *Engine) Back(ctx context.Context, sessionID string) (*Outcome, error) {
	state, w, step, err := e.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if prev, ok := w.StepByOrder(step.Order() - 1); ok {
		state.CurrentStep = prev.ID()
		state.UpdatedAt = time.Now()
		if err := e.storage.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("saving state after back: %w", err)
		}
	}

	return e.outcome(w, state, "", false, nil), nil
}

// GetState retrieves the current state for a session.
func (e *Engine) GetState(ctx context.Context, sessionID string) (*State, error) {
	return e.storage.Load(ctx, sessionID)
}

// ClearState removes the session state.
func (e *Engine) ClearState(ctx context.Context, sessionID string) error {
	return e.storage.Delete(ctx, sessionID)
}

func (e *Engine) resolve(ctx context.Context, sessionID string) (*State, Workflow, Step, error) {
	state, err := e.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, nil, nil, ErrSessionNotFound
	}

	w, ok := e.workflows[state.WorkflowID]
	if !ok {
		return nil, nil, nil, fmt.Errorf("workflow not found: %s", state.WorkflowID)
	}

	step, ok := w.GetStep(state.CurrentStep)
	if !ok {
		return nil, nil, nil, fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	return state, w, step, nil
}

// processResult applies a step result: persist the state on failure so
// the in-flight guard clears, destroy the session on completion, or
// transition and save.
func (e *Engine) processResult(ctx context.Context, w Workflow, state *State, result StepResult) (*Outcome, error) {
	if result.Err != nil {
		e.log.Error("step error",
			slog.String("session_id", state.SessionID),
			slog.String("step_id", string(state.CurrentStep)),
			slog.String("error", result.Err.Error()),
		)
		if err := e.storage.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("saving state after step error: %w", err)
		}
		return nil, result.Err
	}

	if result.Complete {
		e.log.Info("wizard session completed",
			slog.String("session_id", state.SessionID),
			slog.String("workflow_id", string(state.WorkflowID)),
		)
		if err := e.storage.Delete(ctx, state.SessionID); err != nil {
			return nil, fmt.Errorf("deleting completed session: %w", err)
		}
		return e.outcome(w, state, result.Message, true, result.Data), nil
	}

	if result.NextStep != "" && result.NextStep != state.CurrentStep {
		if _, ok := w.GetStep(result.NextStep); !ok {
			return nil, fmt.Errorf("next step not found: %s", result.NextStep)
		}
		state.CurrentStep = result.NextStep

		e.log.Debug("transitioning to step",
			slog.String("session_id", state.SessionID),
			slog.String("step_id", string(result.NextStep)),
		)
	}

	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving state after transition: %w", err)
	}

	return e.outcome(w, state, result.Message, false, result.Data), nil
}

func (e *Engine) outcome(w Workflow, state *State, message string, complete bool, data interface{}) *Outcome {
	number := 0
	if step, ok := w.GetStep(state.CurrentStep); ok {
		number = step.Order()
	}
	return &Outcome{
		SessionID:  state.SessionID,
		Step:       state.CurrentStep,
		StepNumber: number,
		Message:    message,
		Complete:   complete,
		Data:       data,
	}
}
