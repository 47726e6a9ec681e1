package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/internal/lib/api/cont"
	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/wizard"
)

type AdvanceRequest struct {
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

type BackRequest struct {
	SessionID string `json:"session_id"`
}

// StartWizard opens a registration session. The caller may be anonymous;
// a superadmin token unlocks the fast-track bypass for this session.
func StartWizard(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("wizard not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Wizard not available"))
			return
		}

		outcome, err := handler.StartWizard(r.Context(), cont.GetUser(r.Context()))
		if err != nil {
			logger.Error("start wizard", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to start session: %v", err)))
			return
		}

		logger.Debug("wizard session started", slog.String("session_id", outcome.SessionID))
		render.JSON(w, r, response.Ok(outcome))
	}
}

// AdvanceWizard submits the current step's form payload.
func AdvanceWizard(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("wizard not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Wizard not available"))
			return
		}

		var req AdvanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.SessionID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("session_id is required"))
			return
		}

		outcome, err := handler.AdvanceWizard(r.Context(), req.SessionID, req.Payload)
		if err != nil {
			logger.Error("advance wizard", sl.Err(err), slog.String("session_id", req.SessionID))
			renderWizardError(w, r, err)
			return
		}

		logger.Debug("wizard advanced",
			slog.String("session_id", req.SessionID),
			slog.String("step", string(outcome.Step)),
			slog.Bool("complete", outcome.Complete),
		)
		render.JSON(w, r, response.Ok(outcome))
	}
}

// BackWizard steps the session backward without validation.
func BackWizard(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("wizard not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Wizard not available"))
			return
		}

		var req BackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.SessionID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("session_id is required"))
			return
		}

		outcome, err := handler.BackWizard(r.Context(), req.SessionID)
		if err != nil {
			logger.Error("back wizard", sl.Err(err), slog.String("session_id", req.SessionID))
			renderWizardError(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(outcome))
	}
}

// renderWizardError maps engine sentinels onto status codes; the message
// is always surfaced so the user can act on it.
func renderWizardError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		render.Status(r, http.StatusNotFound)
	case errors.Is(err, wizard.ErrBusy):
		render.Status(r, http.StatusConflict)
	case errors.Is(err, wizard.ErrValidation):
		render.Status(r, http.StatusBadRequest)
	case errors.Is(err, wizard.ErrProvider):
		render.Status(r, http.StatusBadGateway)
	default:
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, response.Error(err.Error()))
}
