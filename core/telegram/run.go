package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "reportbot/core/config"
	"reportbot/core/logger"
)

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	Middlewares []Middleware
	Routes      []Route

	// WebhookHandler builds the HTTP handler that receives Bot API updates
	// in webhook mode. Required when run_mode is webhook.
	WebhookHandler func(bot *tele.Bot) http.Handler

	// Setup runs after the bot is created but before any route is bound,
	// letting the caller wire handlers that need the live bot instance.
	// Returned routes are registered in addition to Routes.
	Setup func(bot *tele.Bot) ([]Route, error)
}

// RunTelegram composes and runs the bot until the provided context is done.
// Webhook mode serves updates over HTTP; long-polling mode drives the Telebot
// poller directly.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Client: BuildHTTPClient(),
	}
	if cfg.Telegram.RunMode == coreconfig.RunModeLongpoll {
		settings.Poller = BuildLongPoller(cfg.Telegram.LongPollTimeoutSeconds)
	}

	buildStart := time.Now()
	bot, err := tele.NewBot(settings)
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	routes := opts.Routes
	if opts.Setup != nil {
		extra, err := opts.Setup(bot)
		if err != nil {
			return fmt.Errorf("telegram: setup failed: %w", err)
		}
		routes = append(routes, extra...)
	}

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}
	for _, route := range routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}
	SetupCommands(bot, reg)

	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return runWebhook(ctx, cfg, bot, opts, buildTook)
	}
	return runLongpoll(ctx, cfg, bot, buildTook)
}

func runWebhook(ctx context.Context, cfg *coreconfig.Config, bot *tele.Bot, opts RunOptions, buildTook time.Duration) error {
	if opts.WebhookHandler == nil {
		return fmt.Errorf("telegram: webhook mode requires a webhook handler")
	}

	if err := SetWebhook(cfg.Telegram.Token, cfg.Webhook.URL); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port)
	logger.TG.Info("webhook mode",
		slog.String("event", "mode"),
		slog.String("mode", "webhook"),
		slog.String("listen", addr),
		slog.String("public_url", cfg.Webhook.URL),
		slog.Duration("duration", logger.RoundMS(buildTook)),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           opts.WebhookHandler(bot),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("telegram: webhook server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("telegram: webhook server: %w", err)
		}
		return nil
	}
}

func runLongpoll(ctx context.Context, cfg *coreconfig.Config, bot *tele.Bot, buildTook time.Duration) error {
	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	logger.TG.Info("polling mode",
		slog.String("event", "mode"),
		slog.String("mode", "polling"),
		slog.Int("timeout_seconds", timeoutSec),
		slog.Duration("duration", logger.RoundMS(buildTook)),
	)

	// A stale webhook blocks getUpdates.
	if err := DeleteWebhook(cfg.Telegram.Token, false); err != nil {
		logger.TG.Warn("failed to delete webhook",
			slog.String("event", "delete_webhook"),
			slog.String("err", err.Error()),
		)
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-runDone:
		return nil
	}
}
