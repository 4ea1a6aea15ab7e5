package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/qepting91/subreddit-bot/internal/bot"
	"github.com/qepting91/subreddit-bot/internal/collector"
	"github.com/qepting91/subreddit-bot/internal/config"
	"github.com/qepting91/subreddit-bot/internal/logging"
	"github.com/qepting91/subreddit-bot/internal/metrics"
	"github.com/qepting91/subreddit-bot/internal/ops"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "subreddit-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	posts, err := collector.NewCollector(ctx, cfg.Reddit, logger)
	if err != nil {
		return fmt.Errorf("initialize collector: %w", err)
	}
	logger.Info().Str("mode", cfg.Reddit.Mode).Msg("Collector initialized")

	api, err := newTelegramAPI(&cfg.Telegram)
	if err != nil {
		return fmt.Errorf("connect to telegram (token %s): %w", logging.Redact(cfg.Telegram.Token), err)
	}
	logger.Info().Str("bot", api.Self.UserName).Msg("Authorized on Telegram")

	handler := bot.NewHandler(posts, api, cfg.Reddit.LinkBaseURL, cfg.Reddit.PostLimit, logger)
	b := bot.NewBot(api, handler, cfg.Telegram.Workers, logger)

	return serve(ctx, b, cfg, logger)
}

func newTelegramAPI(cfg *config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	var (
		api *tgbotapi.BotAPI
		err error
	)
	if cfg.APIEndpoint != "" {
		api, err = tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, cfg.APIEndpoint)
	} else {
		api, err = tgbotapi.NewBotAPI(cfg.Token)
	}
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug
	return api, nil
}

// serve runs the bot and, when configured, the ops listener until a signal
// arrives or the bot stops on its own.
func serve(ctx context.Context, b *bot.Bot, cfg *config.Config, logger *zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return b.Run(gctx)
	})

	if cfg.Ops.Addr != "" {
		srv := ops.NewServer(cfg.Ops.Addr, logger)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Ops.ShutdownTimeout)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown ops server: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("Shutdown complete")
	return nil
}
