package registration

import (
	"context"
	"log/slog"

	"edudesk/entity"
	"edudesk/internal/wizard"
)

// Workflow ID
const (
	WorkflowID wizard.WorkflowID = "school-registration"
)

// Step IDs
const (
	StepDetails wizard.StepID = "details"
	StepOtp     wizard.StepID = "otp"
	StepAddress wizard.StepID = "address"
)

// OtpService defines the OTP provider boundary: a send dispatches a code
// to the phone, a verify checks it. No code is ever returned to us.
type OtpService interface {
	Send(ctx context.Context, channel, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// Registrar persists the assembled registration payload.
type Registrar interface {
	Register(ctx context.Context, reg *entity.Registration) (*entity.Completion, error)
}

// Workflow implements the three-step school registration wizard.
type Workflow struct {
	steps     map[wizard.StepID]wizard.Step
	byOrder   map[int]wizard.Step
	otp       OtpService
	registrar Registrar
	log       *slog.Logger
}

// NewWorkflow creates the registration workflow.
func NewWorkflow(otp OtpService, registrar Registrar, log *slog.Logger) *Workflow {
	w := &Workflow{
		steps:     make(map[wizard.StepID]wizard.Step),
		byOrder:   make(map[int]wizard.Step),
		otp:       otp,
		registrar: registrar,
		log:       log,
	}

	w.registerSteps()

	return w
}

func (w *Workflow) registerSteps() {
	for _, step := range []wizard.Step{
		NewDetailsStep(w.otp),
		NewOtpStep(w.otp),
		NewAddressStep(w.registrar),
	} {
		w.steps[step.ID()] = step
		w.byOrder[step.Order()] = step
	}
}

// ID returns the workflow ID.
func (w *Workflow) ID() wizard.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *Workflow) InitialStep() wizard.StepID {
	return StepDetails
}

// GetStep returns a step by ID.
func (w *Workflow) GetStep(id wizard.StepID) (wizard.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// StepByOrder returns the step at a 1-based position.
func (w *Workflow) StepByOrder(order int) (wizard.Step, bool) {
	step, ok := w.byOrder[order]
	return step, ok
}

// Steps returns all steps in order.
func (w *Workflow) Steps() []wizard.Step {
	steps := make([]wizard.Step, 0, len(w.byOrder))
	for order := 1; order <= len(w.byOrder); order++ {
		if step, ok := w.byOrder[order]; ok {
			steps = append(steps, step)
		}
	}
	return steps
}
