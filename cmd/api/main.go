package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/config"
	dbpkg "github.com/BruksfildServices01/binda/internal/db"
	"github.com/BruksfildServices01/binda/internal/events"
	"github.com/BruksfildServices01/binda/internal/infra/assets"
	"github.com/BruksfildServices01/binda/internal/infra/payment"
	"github.com/BruksfildServices01/binda/internal/infra/redislock"
	infraRepo "github.com/BruksfildServices01/binda/internal/infra/repository"
	"github.com/BruksfildServices01/binda/internal/logging"
	"github.com/BruksfildServices01/binda/internal/middleware"
	"github.com/BruksfildServices01/binda/internal/routes"
	ucAppointment "github.com/BruksfildServices01/binda/internal/usecase/appointment"
	"github.com/BruksfildServices01/binda/internal/usecase/slot"
	"github.com/BruksfildServices01/binda/internal/validators"
)

const (
	listingTTL   = 5 * time.Minute
	lockWait     = 3 * time.Second
	mutexTTL     = 10 * time.Second
	shutdownWait = 15 * time.Second
	eventQueue   = 256
)

func main() {
	cfg := config.Load()
	log := logging.New("binda-api", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if err := validators.RegisterGin(); err != nil {
		return err
	}

	db, err := dbpkg.Open(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	infra := routes.Infra{
		Log:       log,
		Locker:    redislock.NewLocalLocker(lockWait),
		Listings:  cache.Nop{},
		Publisher: events.Nop{},
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()

		infra.Locker = redislock.NewRedisLocker(client, mutexTTL, lockWait)
		infra.Listings = cache.NewRedisListings(client, listingTTL)
		log.Info("redis enabled")
	}

	if cfg.AMQPURL != "" {
		pub := events.NewAMQPPublisher(cfg.AMQPURL)
		defer pub.Close()
		async := events.NewAsync(pub, eventQueue, log)
		defer async.Close()
		infra.Publisher = async
		log.Info("event publishing enabled")
	}

	if cfg.Payment.Enabled() {
		gw, err := payment.NewMercadoPago(payment.Options{
			AccessToken:     cfg.Payment.AccessToken,
			SuccessURL:      cfg.Payment.SuccessURL,
			FailureURL:      cfg.Payment.FailureURL,
			NotificationURL: cfg.Payment.NotificationURL,
		})
		if err != nil {
			return err
		}
		infra.Gateway = gw
		log.Info("payments enabled")
	}

	if cfg.Storage.Enabled() {
		infra.Store = assets.NewS3Store(assets.S3Options{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		log.Info("object storage enabled", "bucket", cfg.Storage.Bucket)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()
	infra.Audit = dispatcher

	sweeper := slot.NewSweeper(
		infraRepo.NewSlotLockGormRepository(db),
		infraRepo.NewAppointmentGormRepository(db),
		ucAppointment.Effects{
			Cache:     infra.Listings,
			Audit:     infra.Audit,
			Publisher: infra.Publisher,
			Log:       log,
		},
		cfg.PaymentTimeout,
		cfg.SweepInterval,
		log,
	)
	sweeper.Start()
	defer sweeper.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.HostRouter(r, cfg.DashboardHost()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "dashboard_host", cfg.DashboardHost())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
