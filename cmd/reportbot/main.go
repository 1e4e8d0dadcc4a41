package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	coreconfig "reportbot/core/config"
	"reportbot/core/database"
	"reportbot/core/logger"
	tgcore "reportbot/core/telegram"
	"reportbot/internal/channels"
	"reportbot/internal/i18n"
	"reportbot/internal/report"
	airtablestore "reportbot/internal/storage/airtable"
	pgstore "reportbot/internal/storage/postgres"
	tgadapter "reportbot/internal/telegram"
	"reportbot/internal/webhook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := coreconfig.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Shutdown() }()

	if err := i18n.Validate(); err != nil {
		logger.L.Error("message catalog invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}

	registry := channels.NewRegistry(cfg.Report.Channels)
	store := report.NewMemoryStore()
	writer := airtablestore.NewWriter(
		airtablestore.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, cfg.Airtable.Table),
		cfg.Airtable.WriteAttempts,
		time.Duration(cfg.Airtable.RetryDelayMS)*time.Millisecond,
	)

	machineOpts := report.Options{KeepSessionOnFailure: cfg.Report.KeepSessionOnFailure}
	if cfg.Database.Enabled {
		dbCfg := database.Config{
			Host:           cfg.Database.Host,
			Port:           cfg.Database.Port,
			User:           cfg.Database.User,
			Password:       cfg.Database.Password,
			Name:           cfg.Database.Name,
			SSLMode:        cfg.Database.SSLMode,
			MaxConnections: cfg.Database.MaxConnections,
		}
		if err := database.RunMigrations(dbCfg); err != nil {
			logger.L.Error("migrations failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		db, err := database.Connect(dbCfg)
		if err != nil {
			logger.L.Error("database unavailable", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		machineOpts.Auditor = pgstore.NewSubmissionLog(db)
	}

	reg := tgcore.NewRegistry()
	runErr := tgcore.RunTelegram(ctx, tgcore.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tgcore.DefaultMiddlewares(cfg, nil),
		WebhookHandler: func(bot *tele.Bot) http.Handler {
			return webhook.NewHandler(bot)
		},
		Setup: func(bot *tele.Bot) ([]tgcore.Route, error) {
			machine := report.NewMachine(store, tgadapter.NewBotMessenger(bot), writer, registry, machineOpts)
			adapter := tgadapter.NewAdapter(machine)
			if err := adapter.Register(reg); err != nil {
				return nil, err
			}
			return adapter.Routes(reg), nil
		},
	})
	if runErr != nil {
		logger.L.Error("bot stopped", slog.String("err", runErr.Error()))
		os.Exit(1)
	}
}
