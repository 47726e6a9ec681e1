package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"edudesk/internal/config"
	"edudesk/internal/http-server/handlers/auth"
	"edudesk/internal/http-server/handlers/errors"
	"edudesk/internal/http-server/handlers/superadmin"
	"edudesk/internal/http-server/middleware/authenticate"
	"edudesk/internal/http-server/middleware/timeout"
	"edudesk/internal/lib/sl"
	"edudesk/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	auth.Core
	superadmin.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   conf.Cors.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(authenticate.New(log, conf.Auth.JwtSecret))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Use(timeout.Timeout(30))
			r.Post("/register-session", auth.StartWizard(log, handler))
			r.Post("/wizard/advance", auth.AdvanceWizard(log, handler))
			r.Post("/wizard/back", auth.BackWizard(log, handler))
			r.Post("/send-otp", auth.SendOtp(log, handler))
			r.Post("/verify-otp", auth.VerifyOtp(log, handler))
			r.Post("/register-school", auth.RegisterSchool(log, handler))
		})
		api.Route("/superadmin", func(r chi.Router) {
			r.Use(authenticate.RequireSuperadmin())
			r.Group(func(r chi.Router) {
				r.Use(timeout.Timeout(30))
				r.Get("/dashboard", superadmin.Dashboard(log, handler))
				r.Post("/activate-trial", superadmin.ActivateTrial(log, handler))
				r.Get("/schools", superadmin.ListSchools(log, handler))
				r.Post("/school-status", superadmin.SetStatus(log, handler))
				r.Post("/school-delete", superadmin.DeleteSchool(log, handler))
			})
			// The event feed is long-lived; it stays outside the
			// request timeout.
			r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				ws.ServeWs(hub, log, w, r)
			})
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
