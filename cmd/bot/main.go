package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/lexeii/shoppy-bot/internal/bot"
	"github.com/lexeii/shoppy-bot/internal/config"
	"github.com/lexeii/shoppy-bot/internal/dialog"
	"github.com/lexeii/shoppy-bot/internal/domain/catalog"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
	"github.com/lexeii/shoppy-bot/internal/domain/schedule"
	"github.com/lexeii/shoppy-bot/internal/domain/settings"
	"github.com/lexeii/shoppy-bot/internal/domain/users"
	"github.com/lexeii/shoppy-bot/internal/infra/db"
	httpx "github.com/lexeii/shoppy-bot/internal/infra/http"
	"github.com/lexeii/shoppy-bot/internal/infra/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log, cfg,
		users.NewRepo(pool), dialog.NewRepo(pool),
		catalog.NewRepo(pool), ledger.NewRepo(pool),
		schedule.NewRepo(pool), settings.NewRepo(pool))

	runErr := make(chan error, 1)
	go func() { runErr <- b.Run(ctx, cfg.Telegram.PollSec) }()
	log.Info("bot started")

	select {
	case <-ctx.Done():
	case err := <-runErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("bot stopped", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
