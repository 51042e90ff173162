package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/healthyfootprints/reminder-api/internal/config"
	"github.com/healthyfootprints/reminder-api/internal/email"
	"github.com/healthyfootprints/reminder-api/internal/matcher"
	"github.com/healthyfootprints/reminder-api/internal/notifier"
	"github.com/healthyfootprints/reminder-api/internal/remstore"
	"github.com/healthyfootprints/reminder-api/pkg/logger"
	redisbroker "github.com/healthyfootprints/reminder-api/pkg/messaging/redis"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load agent config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    true,
	})

	sinks := buildSinks(cfg, appLogger)
	if len(sinks) == 0 {
		appLogger.Fatal(nil, "no notification sinks configured")
	}

	store := remstore.NewClient(cfg.APIURL, cfg.SessionCookie, cfg.FetchTimeout)
	m := metrics.New("reminder", "agent")

	mtch := matcher.New(store, cfg.StaffID, sinks, appLogger, m)
	processor := matcher.NewProcessor(mtch, matcher.ProcessorConfig{
		SyncInterval:  cfg.SyncInterval,
		CheckInterval: cfg.CheckInterval,
	}, appLogger)

	setupMetricsServer(cfg.MetricsAddr, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}

func buildSinks(cfg *config.AgentConfig, appLogger *logger.Logger) []notifier.Sink {
	var sinks []notifier.Sink

	if cfg.RedisURL != "" {
		broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.RedisURL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, &appLogger.ZL)
		if err != nil {
			appLogger.Fatal(err, "failed to create redis broker")
		}
		sinks = append(sinks, notifier.NewToastSink(broker, cfg.ToastChannel))
	}

	if cfg.PushGatewayURL != "" {
		gateway := notifier.NewGatewayClient(cfg.PushGatewayURL, cfg.FetchTimeout)
		sinks = append(sinks, notifier.NewSystemSink(gateway, gateway))
	}

	if cfg.SMTPHost != "" && cfg.OnCallEmail != "" {
		emailSvc := email.NewService(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
		})
		sinks = append(sinks, notifier.NewEmailSink(emailSvc, cfg.OnCallEmail))
	}

	return sinks
}

func setupMetricsServer(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Error(err, "metrics server failed")
		}
	}()
}
