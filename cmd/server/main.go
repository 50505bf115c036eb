package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
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
	"herald/internal/infra/template"
	"herald/internal/router"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the notification.Enqueuer interface.
type queueEnqueuer struct {
	client *asynq.Client
}

func (q *queueEnqueuer) EnqueueCampaign(payload *notification.CampaignPayload) error {
	return queue.EnqueueCampaign(q.client, payload)
}

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

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"email_enabled", cfg.Features.Email,
		"sms_enabled", cfg.Features.SMS,
		"push_enabled", cfg.Features.Push,
	)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Template Registry
	tmplEngine := template.NewEngine()

	// Channel Providers (transport strategies fixed here, once)
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

	// Notification Manager
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

	// Asynq Client (for enqueuing campaigns)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Campaign Report Store
	reportStore := report.NewRedisStore(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Queue.ReportTTLSec)*time.Second,
	)
	defer reportStore.Close()

	// Campaign Service
	campaignService := notification.NewService(manager, &queueEnqueuer{client: asynqClient}, reportStore)

	// Handler
	notificationHandler := notification.NewHandler(manager, campaignService)

	// Router
	r := router.New(cfg, notificationHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
