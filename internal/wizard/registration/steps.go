package registration

import (
	"context"
	"encoding/json"
	"fmt"

	"edudesk/entity"
	"edudesk/internal/lib/validate"
	"edudesk/internal/wizard"
)

// BaseStep provides the common identity of a step.
type BaseStep struct {
	id    wizard.StepID
	order int
}

func (s *BaseStep) ID() wizard.StepID {
	return s.id
}

func (s *BaseStep) Order() int {
	return s.order
}

func decode(payload json.RawMessage, into interface{}) error {
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("%w: invalid step payload", wizard.ErrValidation)
	}
	if err := validate.Struct(into); err != nil {
		return fmt.Errorf("%w: %s", wizard.ErrValidation, err)
	}
	return nil
}

// DetailsPayload is the declarative field schema of step 1. Every
// mandatory field lives here; the handler never keeps a separate
// required-fields list that could drift.
type DetailsPayload struct {
	SchoolName      string `json:"school_name" validate:"required"`
	AdminName       string `json:"admin_name" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile" validate:"required,e164"`
	Channel         string `json:"channel" validate:"required,oneof=sms whatsapp"`
	SMSSenderName   string `json:"sms_sender_name" validate:"required"`
	WASenderName    string `json:"wa_sender_name" validate:"omitempty"`
	FromEmail       string `json:"from_email" validate:"required,email"`
	FromEmailName   string `json:"from_email_name" validate:"omitempty"`
	EmailCredential string `json:"email_credential" validate:"required"`
	OperatingHours  string `json:"operating_hours" validate:"omitempty"`
	AcademicYear    string `json:"academic_year" validate:"required"`

	AssignSubscription bool   `json:"assign_subscription"`
	SubscriptionType   string `json:"subscription_type" validate:"omitempty,oneof=trial paid"`
	SubscriptionDays   int    `json:"subscription_days" validate:"omitempty,min=1"`

	FastTrack bool `json:"fast_track"`
}

// DetailsStep collects school and admin identity plus messaging
// preferences, then dispatches the OTP unless fast-track applies.
type DetailsStep struct {
	BaseStep
	otp OtpService
}

func NewDetailsStep(otp OtpService) *DetailsStep {
	return &DetailsStep{BaseStep: BaseStep{id: StepDetails, order: 1}, otp: otp}
}

func (s *DetailsStep) Advance(ctx context.Context, state *wizard.State, payload json.RawMessage) wizard.StepResult {
	var req DetailsPayload
	if err := decode(payload, &req); err != nil {
		return wizard.StepResult{Err: err}
	}

	draft := &state.Draft
	draft.SchoolName = req.SchoolName
	draft.AdminName = req.AdminName
	draft.Username = req.Username
	draft.Email = req.Email
	draft.Mobile = req.Mobile
	draft.Channel = req.Channel
	draft.SMSSenderName = req.SMSSenderName
	draft.WASenderName = req.WASenderName
	draft.FromEmail = req.FromEmail
	draft.FromEmailName = req.FromEmailName
	draft.EmailCredential = req.EmailCredential
	draft.OperatingHours = req.OperatingHours
	draft.AcademicYear = req.AcademicYear
	draft.AssignSubscription = req.AssignSubscription
	draft.SubscriptionType = req.SubscriptionType
	draft.SubscriptionDays = req.SubscriptionDays
	draft.FastTrack = req.FastTrack

	// The toggle alone is not trusted: the session authorization must
	// also hold, and it is re-checked again at final submission.
	if state.FastTrack() {
		return wizard.StepResult{NextStep: StepAddress, Message: "otp skipped"}
	}

	if err := s.otp.Send(ctx, draft.Channel, draft.Mobile); err != nil {
		return wizard.StepResult{Err: fmt.Errorf("%w: %s", wizard.ErrProvider, err)}
	}
	state.OtpSent = true

	return wizard.StepResult{NextStep: StepOtp, Message: "otp sent"}
}

// OtpPayload is the declarative field schema of step 2.
type OtpPayload struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// OtpStep verifies the code the provider dispatched to the mobile number.
type OtpStep struct {
	BaseStep
	otp OtpService
}

func NewOtpStep(otp OtpService) *OtpStep {
	return &OtpStep{BaseStep: BaseStep{id: StepOtp, order: 2}, otp: otp}
}

func (s *OtpStep) Advance(ctx context.Context, state *wizard.State, payload json.RawMessage) wizard.StepResult {
	var req OtpPayload
	if err := decode(payload, &req); err != nil {
		return wizard.StepResult{Err: err}
	}

	// Once verified, returning to this step does not demand a second
	// verification round.
	if state.Draft.MobileVerified {
		return wizard.StepResult{NextStep: StepAddress, Message: "mobile already verified"}
	}

	if err := s.otp.Verify(ctx, state.Draft.Mobile, req.Code); err != nil {
		return wizard.StepResult{Err: fmt.Errorf("%w: %s", wizard.ErrProvider, err)}
	}
	state.Draft.MobileVerified = true

	return wizard.StepResult{NextStep: StepAddress, Message: "mobile verified"}
}

// AddressPayload is the declarative field schema of step 3. Coordinates
// are required pointers so a null latitude fails validation before any
// payload assembly or network call.
type AddressPayload struct {
	Line       string   `json:"line" validate:"required"`
	City       string   `json:"city" validate:"required"`
	State      string   `json:"state" validate:"required"`
	PostalCode string   `json:"postal_code" validate:"required"`
	Country    string   `json:"country" validate:"required"`
	Latitude   *float64 `json:"latitude" validate:"required"`
	Longitude  *float64 `json:"longitude" validate:"required"`
}

// AddressStep collects the address and geolocation, assembles the final
// payload from the whole draft and submits it.
type AddressStep struct {
	BaseStep
	registrar Registrar
}

func NewAddressStep(registrar Registrar) *AddressStep {
	return &AddressStep{BaseStep: BaseStep{id: StepAddress, order: 3}, registrar: registrar}
}

func (s *AddressStep) Advance(ctx context.Context, state *wizard.State, payload json.RawMessage) wizard.StepResult {
	var req AddressPayload
	if err := decode(payload, &req); err != nil {
		return wizard.StepResult{Err: err}
	}

	draft := &state.Draft
	draft.Address = entity.Address{
		Line:       req.Line,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	draft.Latitude = req.Latitude
	draft.Longitude = req.Longitude

	// Fast-track is re-evaluated here independently of step 1: when it
	// holds, the mobile counts as verified unconditionally.
	verified := draft.MobileVerified
	if state.FastTrack() {
		verified = true
	}

	completion, err := s.registrar.Register(ctx, draft.ToRegistration(verified))
	if err != nil {
		// Stay in the address step; resubmission is allowed once the
		// in-flight guard clears.
		return wizard.StepResult{Err: err}
	}

	return wizard.StepResult{Complete: true, Data: completion, Message: "school registered"}
}
