package main

import (
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/config"
	dbpkg "github.com/BruksfildServices01/binda/internal/db"
	"github.com/BruksfildServices01/binda/internal/events"
	infraRepo "github.com/BruksfildServices01/binda/internal/infra/repository"
	ucAppointment "github.com/BruksfildServices01/binda/internal/usecase/appointment"
	"github.com/BruksfildServices01/binda/internal/usecase/slot"
)

func migrateCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := dbpkg.Open(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			log.Info("schema up to date")
			return nil
		},
	}
}

// sweepCmd runs one sweeper pass, for cron setups that disable the
// in-process ticker.
func sweepCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	var paymentTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired slot locks and cancel unpaid bookings once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := dbpkg.Open(cfg)
			if err != nil {
				return err
			}

			var listings cache.Listings = cache.Nop{}
			if cfg.RedisURL != "" {
				opts, err := redis.ParseURL(cfg.RedisURL)
				if err != nil {
					return err
				}
				client := redis.NewClient(opts)
				defer client.Close()
				listings = cache.NewRedisListings(client, 5*time.Minute)
			}

			var publisher events.Publisher = events.Nop{}
			if cfg.AMQPURL != "" {
				pub := events.NewAMQPPublisher(cfg.AMQPURL)
				defer pub.Close()
				publisher = pub
			}

			dispatcher := audit.NewDispatcher(audit.New(db), log)
			defer dispatcher.Close()

			sweeper := slot.NewSweeper(
				infraRepo.NewSlotLockGormRepository(db),
				infraRepo.NewAppointmentGormRepository(db),
				ucAppointment.Effects{
					Cache:     listings,
					Audit:     dispatcher,
					Publisher: publisher,
					Log:       log,
				},
				paymentTimeout,
				cfg.SweepInterval,
				log,
			)

			res, err := sweeper.RunNow(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("sweep finished",
				"expired_locks", res.ExpiredLocks,
				"cancelled_payments", res.CancelledPayments,
			)
			return nil
		},
	}

	cmd.Flags().DurationVar(&paymentTimeout, "payment-timeout", cfg.PaymentTimeout, "cancel pending_payment bookings older than this")
	return cmd
}
