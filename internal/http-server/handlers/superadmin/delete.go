package superadmin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	repository "edudesk/internal/database"
	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
)

type DeleteRequest struct {
	ID string `json:"id"`
}

// DeleteSchool removes a school record entirely (hard delete).
func DeleteSchool(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.superadmin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("school service not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("School service not available"))
			return
		}

		var req DeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if req.ID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("school id is required"))
			return
		}

		err := handler.DeleteSchool(r.Context(), req.ID)
		if err != nil {
			logger.Error("failed to delete school", sl.Err(err))
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("School not found"))
				return
			}
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to delete school: %v", err)))
			return
		}

		logger.Debug("school deleted", slog.String("id", req.ID))
		render.JSON(w, r, response.Ok("School deleted"))
	}
}
