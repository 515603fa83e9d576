package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/meeting-intake/internal/application/intake"
	"github.com/example/meeting-intake/internal/infrastructure/bookingapi"
	"github.com/example/meeting-intake/internal/infrastructure/config"
	"github.com/example/meeting-intake/internal/infrastructure/postgres"
	"github.com/example/meeting-intake/internal/interfaces/web"
)

func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the intake web API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if !cfg.HasSessionKeys() {
				return fmt.Errorf("SESSION_HASH_KEY and SESSION_BLOCK_KEY are required (try `meetintake keys`)")
			}

			logger, err := newLogger(cfg.DevMode)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			booker := bookingapi.New(cfg.BookingURL, cfg.BookingToken)

			var recorder intake.AttemptRecorder
			if cfg.DatabaseURL != "" {
				pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := pool.Ping(ctx); err != nil {
					return fmt.Errorf("db ping: %w", err)
				}
				if err := postgres.Migrate(ctx, pool); err != nil {
					return err
				}
				recorder = postgres.NewSubmissionRepo(pool)
				logger.Info("submission log enabled")
			}

			notifier := intake.NewNotifier(cfg.NoticeTTL)
			go func() { _ = notifier.Run(ctx) }()

			store := intake.NewStore()
			sessions := web.NewSessionManager(cfg.SessionHashKey, cfg.SessionBlockKey)
			srv := web.New(cfg.HTTPAddr, sessions, store, notifier, booker, recorder, logger)
			return srv.ListenAndServe(ctx)
		},
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
