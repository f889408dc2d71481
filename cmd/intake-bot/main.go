package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vkarasev/go-intake-bot/internal/bot"
	"github.com/vkarasev/go-intake-bot/internal/config"
	"github.com/vkarasev/go-intake-bot/internal/httpops"
	"github.com/vkarasev/go-intake-bot/internal/observability"
	"github.com/vkarasev/go-intake-bot/internal/repo"
	"github.com/vkarasev/go-intake-bot/internal/services"
	"github.com/vkarasev/go-intake-bot/internal/session"
	"github.com/vkarasev/go-intake-bot/internal/sysutil"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shCancel()
		if err := shutdownOTel(shCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram client failed")
	}
	api.Debug = cfg.BotDebug
	log.Info().Str("bot", api.Self.UserName).Msg("authorized")

	notifier := bot.NewTelegramNotifier(api)

	orders := services.NewOrderService(db, notifier, cfg.OperatorID)
	orders.EnforceTerminal = cfg.EnforceTerminalStatuses
	threads := &services.ThreadService{DB: db, Notifier: notifier, OperatorID: cfg.OperatorID}
	reviews := &services.ReviewService{
		DB:               db,
		Notifier:         notifier,
		OperatorID:       cfg.OperatorID,
		EnforceOwnership: cfg.EnforceReviewOwnership,
	}
	broadcasts := services.NewBroadcastService(db, notifier, cfg.BroadcastRPS, cfg.BroadcastBurst)

	b := bot.New(api, db, bot.Config{
		OperatorID:        cfg.OperatorID,
		PageSize:          cfg.PageSize,
		WarnOnFlowAbandon: cfg.WarnOnFlowAbandon,
	}, session.NewStore(), orders, threads, reviews, broadcasts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpops.NewRouter(db),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server failed")
			cancel()
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.PollTimeout
	updates := api.GetUpdatesChan(u)

	log.Info().Int64("operator_id", cfg.OperatorID).Msg("bot polling started")
	b.Run(ctx, updates)

	// polling loop exits on signal; drain the rest of the process
	log.Info().Msg("shutting down")
	api.StopReceivingUpdates()

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn().Err(err).Msg("ops server shutdown failed")
	}
	log.Info().Msg("bye")
}
