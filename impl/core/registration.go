package core

import (
	"context"
	"encoding/json"
	"fmt"

	"edudesk/entity"
	"edudesk/internal/wizard"
	"edudesk/internal/wizard/registration"
)

// StartWizard opens a new registration session. The authorization
// context is resolved here, once, from the authenticated caller.
func (c *Core) StartWizard(ctx context.Context, user *entity.UserAuth) (*wizard.Outcome, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("wizard engine not set")
	}
	return c.engine.Start(ctx, registration.WorkflowID, user.IsSuperadmin())
}

// AdvanceWizard submits a step payload against the session.
func (c *Core) AdvanceWizard(ctx context.Context, sessionID string, payload json.RawMessage) (*wizard.Outcome, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("wizard engine not set")
	}
	return c.engine.Advance(ctx, sessionID, payload)
}

// BackWizard moves the session one step backward.
func (c *Core) BackWizard(ctx context.Context, sessionID string) (*wizard.Outcome, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("wizard engine not set")
	}
	return c.engine.Back(ctx, sessionID)
}

// SendOtp dispatches a one-time code over the requested channel.
func (c *Core) SendOtp(ctx context.Context, channel, phone string) error {
	if c.otp == nil {
		return fmt.Errorf("otp service not set")
	}
	return c.otp.Send(ctx, channel, phone)
}

// VerifyOtp checks a submitted code.
func (c *Core) VerifyOtp(ctx context.Context, phone, code string) error {
	if c.otp == nil {
		return fmt.Errorf("otp service not set")
	}
	return c.otp.Verify(ctx, phone, code)
}

// RegisterSchool persists a complete registration payload.
func (c *Core) RegisterSchool(ctx context.Context, reg *entity.Registration) (*entity.Completion, error) {
	if c.registrations == nil {
		return nil, fmt.Errorf("registration service not set")
	}
	return c.registrations.Register(ctx, reg)
}
