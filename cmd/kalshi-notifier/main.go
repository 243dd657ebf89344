package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/config"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/fetcher"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/kalshi"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/logger"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/notifier"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/pipeline"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/screener"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/telegram"
)

var (
	configPath         = flag.String("config", "configs/config.yaml", "Path to configuration file")
	maxExpirationHours = flag.Int("max-expiration-hours", 0, "Override analysis.max_hours_to_close for this run (minimum 1)")
)

// flagPassed reports whether the named flag was given on the command line,
// distinguishing an explicit zero from an absent flag.
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// overrideCloseTS derives the close-time ceiling for an explicit override.
// Windows shorter than one hour clamp to one hour.
func overrideCloseTS(now time.Time, hours int) int64 {
	if hours < 1 {
		hours = 1
	}
	return now.Unix() + int64(hours)*3600
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	environment := "PRODUCTION"
	if cfg.Kalshi.UseDemo {
		environment = "DEMO"
	}
	logger.Info("Environment: %s", environment)
	logger.Info("Max events: %d, max markets per event: %d",
		cfg.Analysis.MaxEventsToAnalyze, cfg.Analysis.MaxMarketsPerEvent)
	logger.Info("Filters: YES >= %d¢, ask <= %d¢, spread >= %d¢, volume >= %d, closes <= %.1fh",
		cfg.Analysis.MinYesPriceCents, cfg.Analysis.MaxYesAskCents,
		cfg.Analysis.MinSpreadCents, cfg.Analysis.MinVolume24h, cfg.Analysis.MaxHoursToClose)

	kalshiClient, err := kalshi.NewClient(cfg.Kalshi)
	if err != nil {
		logger.Fatal("Failed to initialize Kalshi client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kalshiClient.Login(ctx); err != nil {
		logger.Fatal("Kalshi API connection failed: %v", err)
	}
	logger.Info("Kalshi API connected")

	var send pipeline.Notifier
	if cfg.Telegram.Enabled() {
		telegramClient, err := telegram.NewClient(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries,
			cfg.Telegram.RetryDelayBase,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		send = notifier.New(telegramClient, cfg.Telegram.MaxNotificationsPerRun)
		logger.Info("Telegram notifications: enabled")
	} else {
		logger.Info("Telegram notifications: disabled (set telegram.bot_token and telegram.chat_id to enable)")
	}

	// The CLI override supersedes the configured window for this run only.
	var maxCloseTS int64
	if flagPassed("max-expiration-hours") {
		maxCloseTS = overrideCloseTS(time.Now(), *maxExpirationHours)
	}

	run := pipeline.New(
		kalshiClient,
		fetcher.New(kalshiClient, cfg.Analysis.BatchSize, cfg.Analysis.BatchPause),
		screener.New(screener.Config{
			MinYesPriceCents: cfg.Analysis.MinYesPriceCents,
			MinSpreadCents:   cfg.Analysis.MinSpreadCents,
			MaxYesAskCents:   cfg.Analysis.MaxYesAskCents,
			MinVolume24h:     cfg.Analysis.MinVolume24h,
		}),
		send,
		pipeline.Config{
			MaxEventsToAnalyze: cfg.Analysis.MaxEventsToAnalyze,
			MaxMarketsPerEvent: cfg.Analysis.MaxMarketsPerEvent,
			MaxHoursToClose:    cfg.Analysis.MaxHoursToClose,
			MaxCloseTS:         maxCloseTS,
		},
		os.Stdout,
	)

	result, err := run.Run(ctx)
	if err != nil {
		logger.Fatal("Run failed: %v", err)
	}

	if result.State == pipeline.StateAborted {
		logger.Info("Run complete (aborted early: %s)", result.Reason)
	} else {
		logger.Info("Run complete: %d candidate(s), %d notification(s) sent",
			len(result.Candidates), result.Sent)
	}
}
