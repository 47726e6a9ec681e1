package superadmin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/service/subscription"
)

type ActivateTrialRequest struct {
	SchoolID string `json:"schoolId"`
}

func ActivateTrial(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.superadmin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("subscription service not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Subscription service not available"))
			return
		}

		var req ActivateTrialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.SchoolID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("schoolId is required"))
			return
		}

		trial, err := handler.ActivateTrial(r.Context(), req.SchoolID)
		if err != nil {
			logger.Error("activate trial", sl.Err(err), slog.String("school_id", req.SchoolID))
			switch {
			case errors.Is(err, subscription.ErrSchoolNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, subscription.ErrAlreadySubscribed):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Already has subscription"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(fmt.Sprintf("Failed to activate trial: %v", err)))
			}
			return
		}

		logger.Debug("trial activated",
			slog.String("school_id", req.SchoolID),
			slog.String("subscription_id", trial.ID),
		)
		render.JSON(w, r, response.Ok(trial))
	}
}
