package wizard

import (
	"time"

	"github.com/google/uuid"

	"edudesk/entity"
)

// State is the persisted session state of one registration wizard run.
// A session has exactly one editor; the Busy flag suppresses duplicate
// network-bound requests while one is still in flight.
type State struct {
	SessionID   string     `json:"session_id" bson:"_id"`
	WorkflowID  WorkflowID `json:"workflow_id" bson:"workflow_id"`
	CurrentStep StepID     `json:"current_step" bson:"current_step"`

	// Superadmin is the authorization context resolved once at session
	// start. Fast-track trusts this field, never the draft toggle alone.
	Superadmin bool `json:"superadmin" bson:"superadmin"`

	Draft   entity.RegistrationDraft `json:"draft" bson:"draft"`
	OtpSent bool                     `json:"otp_sent" bson:"otp_sent"`
	Busy    bool                     `json:"busy" bson:"busy"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewState creates a fresh session state positioned at the initial step.
func NewState(workflowID WorkflowID, initialStep StepID, superadmin bool) *State {
	now := time.Now()
	return &State{
		SessionID:   uuid.NewString(),
		WorkflowID:  workflowID,
		CurrentStep: initialStep,
		Superadmin:  superadmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FastTrack reports whether the OTP bypass applies: the user-set toggle
// and the session authorization must both hold. Evaluated independently
// at step advance and again at final submission.
func (s *State) FastTrack() bool {
	return s.Draft.FastTrack && s.Superadmin
}
