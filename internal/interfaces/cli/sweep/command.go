// Package sweep implements a one-shot run of the billing maintenance
// sweep, for cron-driven deployments that do not keep the server's
// internal scheduler running.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/config"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/database"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/email"
	httpRouter "github.com/fibrelink-inc/fibrelink/internal/interfaces/http"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one billing maintenance sweep and exit",
		Long:  `Recompute subscription statuses and send expiring-soon and payment-due notices once, then exit.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	biztime.MustInit(cfg.Billing.Timezone)

	log := logger.NewLogger()
	log.Infow("starting billing sweep", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	dispatcher := events.NewInMemoryEventDispatcher(100, log)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()

	emailService := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		OpsAddress:  cfg.Email.OpsAddress,
	})
	emailSubscriber := email.NewBillingEventSubscriber(emailService, log)
	if err := emailSubscriber.Register(dispatcher); err != nil {
		return fmt.Errorf("failed to register email subscriber: %w", err)
	}

	useCases := httpRouter.BuildUseCases(database.Get(), nil, dispatcher, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	now := biztime.NowUTC()

	expired, err := useCases.RecomputeStatuses.Execute(ctx, now)
	if err != nil {
		return fmt.Errorf("status recomputation failed: %w", err)
	}

	expiring, err := useCases.NotifyExpiring.Execute(ctx, now)
	if err != nil {
		return fmt.Errorf("expiring-soon scan failed: %w", err)
	}

	due, err := useCases.NotifyPaymentDue.Execute(ctx, now)
	if err != nil {
		return fmt.Errorf("payment-due scan failed: %w", err)
	}

	log.Infow("billing sweep finished",
		"expired", expired,
		"expiring_soon", expiring,
		"payment_due", due,
	)

	return nil
}
