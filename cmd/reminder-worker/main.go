// Command reminder-worker consumes deferred reminder tasks from the Redis
// queue and delivers them over SMS and email.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/striver-24/medical-appointment-agent/internal/config"
	"github.com/striver-24/medical-appointment-agent/internal/notify"
	"github.com/striver-24/medical-appointment-agent/internal/observability/metrics"
	"github.com/striver-24/medical-appointment-agent/internal/remind"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	email := newEmailSender(ctx, cfg, logger)
	sms := notify.NewStubSMSSender(logger)
	dispatcher := notify.NewDispatcher(email, sms, logger)
	reminderMetrics := metrics.NewReminderMetrics(nil)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
		},
	)
	mux := remind.NewWorkerMux(dispatcher, reminderMetrics, logger)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("reminder worker stopped", "error", err)
			cancel()
		}
	}()
	logger.Info("reminder worker started",
		"redis_addr", cfg.RedisAddr,
		"concurrency", cfg.WorkerConcurrency,
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	logger.Info("reminder worker shutting down")
	srv.Shutdown()
	time.Sleep(time.Second)
}

// newEmailSender prefers SendGrid when an API key is configured, then SES,
// then falls back to the logging stub.
func newEmailSender(ctx context.Context, cfg *config.Config, logger *logging.Logger) notify.EmailSender {
	if cfg.SendGridAPIKey != "" {
		logger.Info("email sender: sendgrid", "from", cfg.SendGridFromEmail)
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	if cfg.AWSRegion != "" && cfg.SESFromEmail != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("email sender: aws config failed, using stub", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		logger.Info("email sender: ses", "region", cfg.AWSRegion, "from", cfg.SESFromEmail)
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	}
	logger.Info("email sender: stub (no provider configured)")
	return notify.NewStubEmailSender(logger)
}
