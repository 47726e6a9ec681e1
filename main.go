package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"edudesk/impl/core"
	"edudesk/internal/config"
	repository "edudesk/internal/database"
	"edudesk/internal/http-server/api"
	"edudesk/internal/lib/logger"
	"edudesk/internal/lib/sl"
	"edudesk/internal/service/dashboard"
	"edudesk/internal/service/mail"
	"edudesk/internal/service/otp"
	regsvc "edudesk/internal/service/registration"
	"edudesk/internal/service/subscription"
	"edudesk/internal/wizard"
	regflow "edudesk/internal/wizard/registration"
	"edudesk/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting edudesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
		return
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	// The unique partial index on live subscriptions closes the
	// duplicate-trial race; without it activation falls back to the
	// non-atomic pre-check.
	if err := db.EnsureIndexes(context.Background()); err != nil {
		lg.With(
			sl.Err(err),
		).Error("ensure indexes")
	}

	hub := ws.NewHub(lg)
	go hub.Run()

	otpService := otp.NewOtpService(conf, lg)
	mailService := mail.NewMailService(conf, lg)

	registrationService := regsvc.NewRegistrationService(db, lg)
	registrationService.SetMailer(mailService)
	registrationService.SetNotifier(hub)

	queryTimeout := time.Duration(conf.Dashboard.QueryTimeoutSec) * time.Second
	dashboardService := dashboard.NewDashboardService(db, queryTimeout, lg)
	subscriptionService := subscription.NewSubscriptionService(db, lg)

	engine := wizard.NewEngine(wizard.NewMongoStateStorage(db), lg)
	engine.RegisterWorkflow(regflow.NewWorkflow(otpService, registrationService, lg))

	handler.SetRepository(db)
	handler.SetOtpService(otpService)
	handler.SetRegistrationService(registrationService)
	handler.SetDashboardService(dashboardService)
	handler.SetSubscriptionService(subscriptionService)
	handler.SetWizardEngine(engine)
	handler.SetNotifier(hub)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
