package superadmin

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
)

func ListSchools(log *slog.Logger, handler Core) http.HandlerFunc {
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

		status := r.URL.Query().Get("status")
		if status == "" {
			status = "all"
		}

		schools, err := handler.GetSchools(r.Context(), status)
		if err != nil {
			logger.Error("failed to list schools", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list schools: %v", err)))
			return
		}

		logger.Debug("schools listed", slog.Int("count", len(schools)))
		render.JSON(w, r, response.Ok(schools))
	}
}
