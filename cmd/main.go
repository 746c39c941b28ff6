package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"homework-telegram-bot/config"
	"homework-telegram-bot/internal/database"
	"homework-telegram-bot/internal/metrics"
	"homework-telegram-bot/internal/poller"
	"homework-telegram-bot/internal/practicum"
	"homework-telegram-bot/internal/telegram"
	"homework-telegram-bot/lib/translation"
)

const metricsSaveInterval = 5 * time.Minute

func main() {
	setupLogging()

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting homework telegram bot...")

	translation.Configure("locales", cfg.Lang)

	store, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Errorf("Failed to initialize database, metrics will not be persisted: %v", err)
	}
	defer store.Close()

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)
	botMetrics.Load(store)

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:   cfg.TelegramToken,
		Debug:   cfg.Debug,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	client := practicum.NewClient(practicum.Config{
		Endpoint: cfg.Endpoint,
		Token:    cfg.PracticumToken,
		Timeout:  cfg.RequestTimeout,
	})

	p := poller.New(client, telegram.NewNotifier(bot, cfg.TelegramChatID), botMetrics, poller.Config{
		RetryPeriod: cfg.RetryPeriod,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsPort > 0 {
		go func() {
			if err := metrics.LaunchMetricsAndHealthServer(ctx, cfg.MetricsPort, prometheus.DefaultGatherer); err != nil {
				log.Errorf("Metrics and health server failed: %v", err)
			}
		}()
	}

	if store != nil {
		go saveMetricsPeriodically(ctx, botMetrics, store)
	}

	p.Run(ctx)

	if err := botMetrics.Save(store); err != nil {
		log.Errorf("Failed to save metrics: %v", err)
	}
	log.Info("Metrics saved, shutting down...")
}

func setupLogging() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(log.InfoLevel)
}

func saveMetricsPeriodically(ctx context.Context, m *metrics.BotMetrics, store *database.Store) {
	ticker := time.NewTicker(metricsSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Save(store); err != nil {
				log.Errorf("Failed to save metrics: %v", err)
			}
		}
	}
}
