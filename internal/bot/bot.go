package bot

import (
	"context"

	"github.com/alitto/pond/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// CommandHandler handles a single command for a chat.
type CommandHandler interface {
	Handle(ctx context.Context, chatID int64, command string)
}

const pollTimeoutSeconds = 60

// Bot long-polls Telegram and hands each command to a bounded worker pool,
// so a slow fetch for one chat does not hold up the others.
type Bot struct {
	api     API
	handler CommandHandler
	pool    pond.Pool
	logger  zerolog.Logger
}

func NewBot(api API, handler CommandHandler, workers int, logger *zerolog.Logger) *Bot {
	if workers < 1 {
		workers = 1
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "bot").Logger()
	}
	return &Bot{
		api:     api,
		handler: handler,
		pool:    pond.NewPool(workers),
		logger:  l,
	}
}

// Run publishes the command menu and processes updates until ctx is done or
// the update channel closes. Commands already accepted run to completion
// before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(MenuCommands()...)); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to register command menu")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Msg("Bot is polling for updates")
	defer func() {
		b.pool.StopAndWait()
		b.logger.Info().Msg("Bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	command := msg.Command()
	ev := b.logger.Debug().Int64("chat_id", chatID).Str("command", command)
	if msg.From != nil {
		ev = ev.Str("user", msg.From.UserName)
	}
	ev.Msg("Received command")

	// Shutdown stops intake; commands already accepted still finish.
	taskCtx := context.WithoutCancel(ctx)
	b.pool.Submit(func() {
		b.handler.Handle(taskCtx, chatID, command)
	})
}
