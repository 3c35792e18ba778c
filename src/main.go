package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"yield_aggregator/src/apy"
)

func main() {
	// Try to load .env file
	envErr := godotenv.Load()

	logger, err := newLogger(getEnv("DEBUG", "") == "true")
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, will use OS environment variables")
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalw("invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalw("yield aggregator stopped", "err", err)
	}
}

func run(ctx context.Context, cfg Config, logger *zap.SugaredLogger) error {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dialing rpc: %w", err)
	}
	defer client.Close()

	db, err := NewDatabase(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	var (
		notifier Notifier = logNotifier{log: logger}
		telegram *TelegramNotifier
	)
	if cfg.TelegramToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("creating telegram bot: %w", err)
		}
		logger.Infow("authorized on telegram", "account", bot.Self.UserName)

		if cfg.ChatID != 0 {
			if err := db.AddSubscriber(cfg.ChatID); err != nil {
				return fmt.Errorf("subscribing CHAT_ID: %w", err)
			}
		}
		telegram = NewTelegramNotifier(bot, db, logger)
		notifier = telegram
	}

	compound := NewCompoundSource(client, cfg.CompoundCToken, cfg.WETH)
	compound.Timeout = cfg.RPCTimeout
	aave := NewAaveSource(client, cfg.AaveLendingPool, cfg.WETH)
	aave.Timeout = cfg.RPCTimeout

	agg := NewAggregator(
		compound,
		aave,
		&apy.CompoundCalculator{BlocksPerDay: cfg.BlocksPerDay, DaysPerYear: cfg.DaysPerYear},
		&apy.AaveCalculator{MaxRate: apy.MaxRateFromPercent(cfg.AaveMaxRatePercent)},
		db,
		notifier,
		metrics,
		logger,
	)

	if telegram != nil {
		go telegram.Listen(ctx, agg)
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("metrics server", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	scheduler := NewScheduler(logger)
	job := &checkJob{ctx: ctx, agg: agg, timeout: 2 * cfg.RPCTimeout}
	if err := scheduler.AddJob(cfg.CheckSchedule, job); err != nil {
		return fmt.Errorf("scheduling %q: %w", cfg.CheckSchedule, err)
	}

	scheduler.RunNow(job)
	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()

	return nil
}
