package core

import (
	"context"
	"encoding/json"
	"log/slog"

	"edudesk/entity"
	"edudesk/internal/lib/sl"
	"edudesk/internal/wizard"
)

// Repository is the slice of the database layer the core touches
// directly (everything else is reached through the services).
type Repository interface {
	GetAllSchools(ctx context.Context, status string) ([]entity.School, error)
	SetSchoolActive(ctx context.Context, id string, active bool) error
	DeleteSchool(ctx context.Context, id string) error
}

// OtpService dispatches and verifies one-time codes.
type OtpService interface {
	Send(ctx context.Context, channel, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// RegistrationService persists a completed registration payload.
type RegistrationService interface {
	Register(ctx context.Context, reg *entity.Registration) (*entity.Completion, error)
}

// DashboardService computes the superadmin reporting summary.
type DashboardService interface {
	Summary(ctx context.Context) (*entity.DashboardSummary, error)
}

// SubscriptionService activates trials.
type SubscriptionService interface {
	ActivateTrial(ctx context.Context, schoolID string) (*entity.Subscription, error)
}

// WizardEngine drives registration sessions.
type WizardEngine interface {
	Start(ctx context.Context, workflowID wizard.WorkflowID, superadmin bool) (*wizard.Outcome, error)
	Advance(ctx context.Context, sessionID string, payload json.RawMessage) (*wizard.Outcome, error)
	Back(ctx context.Context, sessionID string) (*wizard.Outcome, error)
}

// Notifier publishes events to the dashboard feed.
type Notifier interface {
	TrialActivated(sub *entity.Subscription)
}

// Core wires the services together behind the handler interfaces.
type Core struct {
	repo          Repository
	otp           OtpService
	registrations RegistrationService
	dashboard     DashboardService
	subscriptions SubscriptionService
	engine        WizardEngine
	notifier      Notifier
	log           *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetOtpService(otp OtpService) {
	c.otp = otp
}

func (c *Core) SetRegistrationService(svc RegistrationService) {
	c.registrations = svc
}

func (c *Core) SetDashboardService(svc DashboardService) {
	c.dashboard = svc
}

func (c *Core) SetSubscriptionService(svc SubscriptionService) {
	c.subscriptions = svc
}

func (c *Core) SetWizardEngine(engine WizardEngine) {
	c.engine = engine
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}
