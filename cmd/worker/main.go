package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herald/internal/config"
	"herald/internal/domain/notification"
	"herald/internal/infra/email"
	"herald/internal/infra/push"
	"herald/internal/infra/queue"
	"herald/internal/infra/report"
	"herald/internal/infra/sms"
	"herald/internal/infra/store"
	"herald/internal/infra/template"

	"github.com/hibiken/asynq"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Template Registry
	tmplEngine := template.NewEngine()

	// Channel Providers
	emailProvider := email.New(email.Config{
		APIKey:       cfg.Email.APIKey,
		FromAddress:  cfg.Email.FromAddress,
		FromName:     cfg.Email.FromName,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
	}, tmplEngine)

	smsProvider := sms.New(sms.Config{
		AccountSID: cfg.SMS.AccountSID,
		AuthToken:  cfg.SMS.AuthToken,
		FromNumber: cfg.SMS.FromNumber,
	}, tmplEngine)

	pushProvider := push.New(push.Config{
		ServerKey: cfg.Push.ServerKey,
	}, tmplEngine)

	// Notification Manager + Campaign Runner
	manager := notification.NewManager(
		tmplEngine,
		emailProvider,
		smsProvider,
		pushProvider,
		notification.Features{
			Email: cfg.Features.Email,
			SMS:   cfg.Features.SMS,
			Push:  cfg.Features.Push,
		},
		time.Duration(cfg.Bulk.SendTimeoutSec)*time.Second,
	)
	runner := notification.NewCampaignRunner(manager, cfg.Bulk.Concurrency)

	// Member Directory
	directory, err := store.NewSupabaseDirectory(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize member directory", "error", err)
		os.Exit(1)
	}
	slog.Info("member directory initialized")

	// Campaign Report Store
	reportStore := report.NewRedisStore(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Queue.ReportTTLSec)*time.Second,
	)
	defer reportStore.Close()

	// Campaign Worker
	campaignWorker := notification.NewWorker(directory, runner, reportStore)

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeDispatchCampaign, func(ctx context.Context, task *asynq.Task) error {
		payload, err := notification.ParseCampaignPayload(task.Payload())
		if err != nil {
			return err
		}
		return campaignWorker.ProcessCampaign(ctx, payload)
	})

	// Start the asynq worker in a goroutine
	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
