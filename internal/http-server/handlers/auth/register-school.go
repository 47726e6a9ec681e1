package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/entity"
	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/lib/validate"
	"edudesk/internal/service/registration"
)

// RegisterSchoolRequest is the direct (non-wizard) registration payload.
// Coordinates are required pointers: a null latitude is a validation
// failure, not a zero value.
type RegisterSchoolRequest struct {
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

	Address   entity.Address `json:"address"`
	Latitude  *float64       `json:"latitude" validate:"required"`
	Longitude *float64       `json:"longitude" validate:"required"`

	MobileVerified bool `json:"mobile_verified"`

	AssignSubscription bool   `json:"assign_subscription"`
	SubscriptionType   string `json:"subscription_type" validate:"omitempty,oneof=trial paid"`
	SubscriptionDays   int    `json:"subscription_days" validate:"omitempty,min=1"`
}

func RegisterSchool(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("registration service not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Registration service not available"))
			return
		}

		var req RegisterSchoolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		fromEmailName := req.FromEmailName
		if fromEmailName == "" {
			fromEmailName = req.SchoolName
		}
		days := req.SubscriptionDays
		if days <= 0 {
			days = entity.DefaultSubscriptionDays
		}

		reg := &entity.Registration{
			SchoolName:         req.SchoolName,
			AdminName:          req.AdminName,
			Username:           req.Username,
			Email:              req.Email,
			Mobile:             req.Mobile,
			Channel:            req.Channel,
			SMSSenderName:      req.SMSSenderName,
			WASenderName:       req.WASenderName,
			FromEmail:          req.FromEmail,
			FromEmailName:      fromEmailName,
			EmailCredential:    req.EmailCredential,
			OperatingHours:     req.OperatingHours,
			AcademicYear:       req.AcademicYear,
			Address:            req.Address,
			Latitude:           *req.Latitude,
			Longitude:          *req.Longitude,
			MobileVerified:     req.MobileVerified,
			AssignSubscription: req.AssignSubscription,
			SubscriptionType:   req.SubscriptionType,
			SubscriptionDays:   days,
		}

		completion, err := handler.RegisterSchool(r.Context(), reg)
		if err != nil {
			logger.Error("register school", sl.Err(err))
			if errors.Is(err, registration.ErrUsernameTaken) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Registration failed: %v", err)))
			return
		}

		logger.Debug("school registered", slog.String("school", completion.SchoolName))
		render.JSON(w, r, response.Ok(completion))
	}
}
