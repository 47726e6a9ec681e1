package registration_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/entity"
	"edudesk/internal/wizard"
	"edudesk/internal/wizard/registration"
)

type memStorage struct {
	mu     sync.Mutex
	states map[string]wizard.State
}

func newMemStorage() *memStorage {
	return &memStorage{states: make(map[string]wizard.State)}
}

func (m *memStorage) Save(_ context.Context, state *wizard.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.SessionID] = *state
	return nil
}

func (m *memStorage) Load(_ context.Context, sessionID string) (*wizard.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[sessionID]
	if !ok {
		return nil, nil
	}
	copied := state
	return &copied, nil
}

func (m *memStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

func (m *memStorage) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[sessionID]
	return ok, nil
}

type fakeOtp struct {
	sends    int
	verifies int
	sendErr  error
	codeErr  error
}

func (f *fakeOtp) Send(_ context.Context, _, _ string) error {
	f.sends++
	return f.sendErr
}

func (f *fakeOtp) Verify(_ context.Context, _, _ string) error {
	f.verifies++
	return f.codeErr
}

type fakeRegistrar struct {
	calls int
	last  *entity.Registration
	err   error
}

func (f *fakeRegistrar) Register(_ context.Context, reg *entity.Registration) (*entity.Completion, error) {
	f.calls++
	f.last = reg
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Completion{SchoolName: reg.SchoolName, Email: reg.Email, Mobile: reg.Mobile}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, otp *fakeOtp, registrar *fakeRegistrar) (*wizard.Engine, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	engine := wizard.NewEngine(storage, discardLogger())
	engine.RegisterWorkflow(registration.NewWorkflow(otp, registrar, discardLogger()))
	return engine, storage
}

func detailsPayload(overrides map[string]interface{}) json.RawMessage {
	fields := map[string]interface{}{
		"school_name":      "Greenfield High",
		"admin_name":       "Asha Rao",
		"username":         "asha.rao",
		"email":            "asha@greenfield.example",
		"mobile":           "+919876543210",
		"channel":          "sms",
		"sms_sender_name":  "GRNFLD",
		"from_email":       "noreply@greenfield.example",
		"email_credential": "sg-credential",
		"academic_year":    "2026-2027",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	raw, _ := json.Marshal(fields)
	return raw
}

func addressPayload() json.RawMessage {
	raw, _ := json.Marshal(map[string]interface{}{
		"line":        "12 Lake Road",
		"city":        "Pune",
		"state":       "Maharashtra",
		"postal_code": "411001",
		"country":     "IN",
		"latitude":    18.5204,
		"longitude":   73.8567,
	})
	return raw
}

func TestWorkflowFullFlow(t *testing.T) {
	otp := &fakeOtp{}
	registrar := &fakeRegistrar{}
	engine, storage := newTestEngine(t, otp, registrar)
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)
	assert.Equal(t, registration.StepDetails, out.Step)
	assert.Equal(t, 1, out.StepNumber)

	out, err = engine.Advance(ctx, out.SessionID, detailsPayload(nil))
	require.NoError(t, err)
	assert.Equal(t, registration.StepOtp, out.Step)
	assert.Equal(t, 1, otp.sends, "exactly one OTP dispatch per details submission")

	out, err = engine.Advance(ctx, out.SessionID, json.RawMessage(`{"code":"482913"}`))
	require.NoError(t, err)
	assert.Equal(t, registration.StepAddress, out.Step)
	assert.Equal(t, 1, otp.verifies)

	out, err = engine.Advance(ctx, out.SessionID, addressPayload())
	require.NoError(t, err)
	assert.True(t, out.Complete)
	require.Equal(t, 1, registrar.calls)
	assert.True(t, registrar.last.MobileVerified)
	assert.Equal(t, "Greenfield High", registrar.last.SchoolName)
	assert.Equal(t, 18.5204, registrar.last.Latitude)

	completion, ok := out.Data.(*entity.Completion)
	require.True(t, ok)
	assert.Equal(t, "asha@greenfield.example", completion.Email)

	exists, err := storage.Exists(ctx, out.SessionID)
	require.NoError(t, err)
	assert.False(t, exists, "session state destroyed on completion")
}

func TestWorkflowFastTrackSkipsOtp(t *testing.T) {
	otp := &fakeOtp{}
	registrar := &fakeRegistrar{}
	engine, _ := newTestEngine(t, otp, registrar)
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, true)
	require.NoError(t, err)

	out, err = engine.Advance(ctx, out.SessionID, detailsPayload(map[string]interface{}{"fast_track": true}))
	require.NoError(t, err)
	assert.Equal(t, registration.StepAddress, out.Step)
	assert.Equal(t, 3, out.StepNumber)
	assert.Zero(t, otp.sends, "fast-track dispatches no OTP")

	out, err = engine.Advance(ctx, out.SessionID, addressPayload())
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Zero(t, otp.verifies)
	require.Equal(t, 1, registrar.calls)
	assert.True(t, registrar.last.MobileVerified, "fast-track submissions count as verified")
}

func TestWorkflowFastTrackToggleIgnoredWithoutAuthorization(t *testing.T) {
	otp := &fakeOtp{}
	engine, _ := newTestEngine(t, otp, &fakeRegistrar{})
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)

	out, err = engine.Advance(ctx, out.SessionID, detailsPayload(map[string]interface{}{"fast_track": true}))
	require.NoError(t, err)
	assert.Equal(t, registration.StepOtp, out.Step, "toggle alone never bypasses verification")
	assert.Equal(t, 1, otp.sends)
}

func TestWorkflowDetailsValidationBeforeDispatch(t *testing.T) {
	otp := &fakeOtp{}
	engine, _ := newTestEngine(t, otp, &fakeRegistrar{})
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)

	_, err = engine.Advance(ctx, out.SessionID, detailsPayload(map[string]interface{}{"email": "not-an-email"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, wizard.ErrValidation)
	assert.Zero(t, otp.sends, "no network call for an invalid payload")

	state, err := engine.GetState(ctx, out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepDetails, state.CurrentStep)
}

func TestWorkflowNullCoordinateRejected(t *testing.T) {
	otp := &fakeOtp{}
	registrar := &fakeRegistrar{}
	engine, _ := newTestEngine(t, otp, registrar)
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, true)
	require.NoError(t, err)
	out, err = engine.Advance(ctx, out.SessionID, detailsPayload(map[string]interface{}{"fast_track": true}))
	require.NoError(t, err)

	raw, _ := json.Marshal(map[string]interface{}{
		"line":        "12 Lake Road",
		"city":        "Pune",
		"state":       "Maharashtra",
		"postal_code": "411001",
		"country":     "IN",
		"latitude":    nil,
		"longitude":   73.8567,
	})
	_, err = engine.Advance(ctx, out.SessionID, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, wizard.ErrValidation)
	assert.Zero(t, registrar.calls, "submission never assembled from a null coordinate")
}

func TestWorkflowProviderFailureKeepsStep(t *testing.T) {
	otp := &fakeOtp{sendErr: errors.New("gateway unreachable")}
	engine, _ := newTestEngine(t, otp, &fakeRegistrar{})
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)

	_, err = engine.Advance(ctx, out.SessionID, detailsPayload(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, wizard.ErrProvider)

	state, err := engine.GetState(ctx, out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepDetails, state.CurrentStep)
	assert.False(t, state.Busy, "in-flight guard cleared after a failed dispatch")

	// The gateway recovers; the same session advances normally.
	otp.sendErr = nil
	next, err := engine.Advance(ctx, out.SessionID, detailsPayload(nil))
	require.NoError(t, err)
	assert.Equal(t, registration.StepOtp, next.Step)
}

func TestWorkflowVerificationSurvivesBack(t *testing.T) {
	otp := &fakeOtp{}
	engine, _ := newTestEngine(t, otp, &fakeRegistrar{})
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)
	sessionID := out.SessionID

	_, err = engine.Advance(ctx, sessionID, detailsPayload(nil))
	require.NoError(t, err)
	out, err = engine.Advance(ctx, sessionID, json.RawMessage(`{"code":"482913"}`))
	require.NoError(t, err)
	require.Equal(t, registration.StepAddress, out.Step)

	// Back to the OTP step and forward again: no second verification round.
	out, err = engine.Back(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepOtp, out.Step)

	out, err = engine.Advance(ctx, sessionID, json.RawMessage(`{"code":"000000"}`))
	require.NoError(t, err)
	assert.Equal(t, registration.StepAddress, out.Step)
	assert.Equal(t, 1, otp.verifies, "verified state is idempotent across back navigation")
}

func TestWorkflowBackIsUnconditional(t *testing.T) {
	otp := &fakeOtp{}
	engine, _ := newTestEngine(t, otp, &fakeRegistrar{})
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, false)
	require.NoError(t, err)
	sessionID := out.SessionID

	// Back on the first step is a no-op.
	out, err = engine.Back(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepDetails, out.Step)

	_, err = engine.Advance(ctx, sessionID, detailsPayload(nil))
	require.NoError(t, err)

	out, err = engine.Back(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepDetails, out.Step)

	// Collected data survives the backward move.
	state, err := engine.GetState(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield High", state.Draft.SchoolName)
	assert.True(t, state.OtpSent)
}

func TestWorkflowRegistrarFailureAllowsResubmit(t *testing.T) {
	otp := &fakeOtp{}
	registrar := &fakeRegistrar{err: errors.New("insert school: connection reset")}
	engine, _ := newTestEngine(t, otp, registrar)
	ctx := context.Background()

	out, err := engine.Start(ctx, registration.WorkflowID, true)
	require.NoError(t, err)
	_, err = engine.Advance(ctx, out.SessionID, detailsPayload(map[string]interface{}{"fast_track": true}))
	require.NoError(t, err)

	_, err = engine.Advance(ctx, out.SessionID, addressPayload())
	require.Error(t, err)

	state, err := engine.GetState(ctx, out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, registration.StepAddress, state.CurrentStep)
	assert.False(t, state.Busy)

	registrar.err = nil
	final, err := engine.Advance(ctx, out.SessionID, addressPayload())
	require.NoError(t, err)
	assert.True(t, final.Complete)
	assert.Equal(t, 2, registrar.calls)
}
