package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/config"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/notify"
	"github.com/emilythestrangee/blogicum/backend/internal/seed"
	"github.com/emilythestrangee/blogicum/backend/internal/server"
)

const (
	notifyTimeout   = 30 * time.Second
	shutdownTimeout = 30 * time.Second

	limiterSweep   = time.Minute
	limiterMaxIdle = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.New(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	if cfg.SeedFile != "" {
		fixture, err := seed.Load(cfg.SeedFile)
		if err != nil {
			log.WithError(err).Fatal("failed to read seed file")
		}
		if err := seed.Apply(context.Background(), db.GetDB(), fixture); err != nil {
			log.WithError(err).Fatal("failed to seed reference data")
		}
		log.WithFields(logrus.Fields{
			"categories": len(fixture.Categories),
			"locations":  len(fixture.Locations),
		}).Info("reference data seeded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	dispatcher := notify.NewDispatcher(log, notifyTimeout, m.NotificationSent)
	limiter := middleware.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst, log)
	limiter.StartCleanup(ctx, limiterSweep, limiterMaxIdle)

	srv, err := server.NewServer(cfg, server.Deps{
		DB:         db,
		Store:      database.NewRepository(db.GetDB()),
		Notifier:   buildNotifier(cfg, log),
		Dispatcher: dispatcher,
		Metrics:    m,
		Limiter:    limiter,
		Log:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	// Let queued notifications finish before the database goes away.
	dispatcher.Wait()
}

// buildNotifier picks the configured transports for comment notifications.
func buildNotifier(cfg *config.Config, log *logrus.Logger) notify.Notifier {
	var out notify.Multi
	if cfg.Mail.Enabled() {
		out = append(out, notify.NewMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password))
	} else {
		log.Warn("SMTP_HOST not set, comment notifications will only be logged")
		out = append(out, notify.LogNotifier{Log: log})
	}
	if cfg.Twilio.Enabled() {
		out = append(out, notify.NewSMSAlerter(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From, cfg.Twilio.Recipients()))
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
