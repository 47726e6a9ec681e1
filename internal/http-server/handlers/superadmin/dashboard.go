package superadmin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/service/dashboard"
)

func Dashboard(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.superadmin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("dashboard not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Dashboard not available"))
			return
		}

		summary, err := handler.Dashboard(r.Context())
		if err != nil {
			logger.Error("dashboard summary", sl.Err(err))
			// "Data unavailable" must stay distinguishable from a
			// legitimate zero-schools summary.
			if errors.Is(err, dashboard.ErrUnavailable) {
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("Dashboard data unavailable"))
				return
			}
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to load dashboard"))
			return
		}

		logger.Debug("dashboard summary",
			slog.Int("total_schools", summary.TotalSchools),
			slog.Int("active_trials", summary.ActiveTrials),
			slog.Int("active_paid", summary.ActivePaid),
		)
		render.JSON(w, r, summary)
	}
}
