package auth

import (
	"context"
	"encoding/json"

	"edudesk/entity"
	"edudesk/internal/wizard"
)

type Core interface {
	StartWizard(ctx context.Context, user *entity.UserAuth) (*wizard.Outcome, error)
	AdvanceWizard(ctx context.Context, sessionID string, payload json.RawMessage) (*wizard.Outcome, error)
	BackWizard(ctx context.Context, sessionID string) (*wizard.Outcome, error)

	SendOtp(ctx context.Context, channel, phone string) error
	VerifyOtp(ctx context.Context, phone, code string) error
	RegisterSchool(ctx context.Context, reg *entity.Registration) (*entity.Completion, error)
}
