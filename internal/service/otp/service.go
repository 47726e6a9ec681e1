package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"edudesk/internal/config"
	"edudesk/internal/lib/sl"
)

// Service talks to the OTP gateway. The gateway owns the challenge
// lifecycle (code generation, expiry, attempt counting); we only observe
// accept/verify outcomes and never see the code itself.
type Service struct {
	apiKey  string
	baseUrl string
	client  *http.Client
	log     *slog.Logger
}

func NewOtpService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		apiKey:  conf.Otp.ApiKey,
		baseUrl: conf.Otp.BaseUrl,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.With(sl.Module("otp service")),
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Channel string `json:"channel"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type gatewayResponse struct {
	Message string `json:"message"`
}

// Send asks the gateway to dispatch a one-time code to the phone over
// the chosen channel (sms or whatsapp).
func (s *Service) Send(ctx context.Context, channel, phone string) error {
	err := s.post(ctx, "/v1/otp/send", sendRequest{Phone: phone, Channel: channel})
	if err != nil {
		s.log.With(sl.Err(err), slog.String("channel", channel)).Error("send otp")
		return err
	}

	s.log.With(
		slog.String("phone", phone),
		slog.String("channel", channel),
	).Info("otp sent")
	return nil
}

// Verify checks the submitted code against the gateway's challenge for
// the phone. Any non-success outcome means "not verified"; the gateway's
// reason (wrong code, expired code) is passed through as-is.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	err := s.post(ctx, "/v1/otp/verify", verifyRequest{Phone: phone, Code: code})
	if err != nil {
		s.log.With(sl.Err(err)).Error("verify otp")
		return err
	}

	s.log.With(slog.String("phone", phone)).Info("otp verified")
	return nil
}

func (s *Service) post(ctx context.Context, path string, body interface{}) error {
	url := s.baseUrl + path

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("otp gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gw gatewayResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&gw); decodeErr == nil && gw.Message != "" {
			return fmt.Errorf("%s", gw.Message)
		}
		return fmt.Errorf("otp gateway responded with %d", resp.StatusCode)
	}

	return nil
}
