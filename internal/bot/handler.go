package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qepting91/subreddit-bot/internal/domain"
	"github.com/qepting91/subreddit-bot/internal/metrics"
	"github.com/qepting91/subreddit-bot/internal/selector"
	"github.com/rs/zerolog"
)

// Sender is the part of the Telegram client the handler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler answers one chat command at a time. It holds no per-command state
// and may be called from many goroutines.
type Handler struct {
	collector domain.Collector
	sender    Sender
	linkBase  string
	limit     int
	logger    zerolog.Logger
}

func NewHandler(collector domain.Collector, sender Sender, linkBase string, limit int, logger *zerolog.Logger) *Handler {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "handler").Logger()
	}
	return &Handler{
		collector: collector,
		sender:    sender,
		linkBase:  strings.TrimRight(linkBase, "/"),
		limit:     limit,
		logger:    l,
	}
}

// Handle runs command for chatID to completion. Failures, including panics,
// are logged and reported to the chat; they never propagate.
func (h *Handler) Handle(ctx context.Context, chatID int64, command string) {
	command = strings.ToLower(strings.TrimSpace(command))
	log := h.logger.With().Int64("chat_id", chatID).Str("command", command).Logger()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.Error().Err(err).Msg("Recovered while handling command")
			metrics.IncCommand(metricLabel(command), metrics.OutcomeError)
			h.reportError(&log, chatID, err)
		}
	}()

	outcome, err := h.dispatch(ctx, &log, chatID, command)
	if err != nil {
		log.Error().Err(err).Msg("Error while fetching/sending posts")
		h.reportError(&log, chatID, err)
		outcome = metrics.OutcomeError
	}
	metrics.IncCommand(metricLabel(command), outcome)
}

func (h *Handler) dispatch(ctx context.Context, log *zerolog.Logger, chatID int64, command string) (string, error) {
	if command == CommandStart {
		if err := h.sendText(chatID, greetingText); err != nil {
			return "", fmt.Errorf("send greeting: %w", err)
		}
		return metrics.OutcomeOK, nil
	}

	community, ok := CommunityFor(command)
	if !ok {
		log.Debug().Msg("Ignoring unrecognized command")
		return metrics.OutcomeIgnored, nil
	}

	log.Info().Str("community", community).Msg("Fetching posts from subreddit")
	posts := h.collector.FetchRecentPosts(ctx, community, h.limit)

	post := selector.FindMostPopular(posts)
	if post == nil {
		log.Warn().Str("community", community).Msg("No posts available in the subreddit")
		if err := h.sendText(chatID, noPostsText); err != nil {
			return "", fmt.Errorf("send empty notice: %w", err)
		}
		return metrics.OutcomeEmpty, nil
	}

	msg := tgbotapi.NewMessage(chatID, FormatPost(post, h.linkBase))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.sender.Send(msg); err != nil {
		return "", fmt.Errorf("send post: %w", err)
	}

	log.Info().Str("post_id", post.ID).Int("score", int(post.Score)).Msg("Sent the most popular post")
	return metrics.OutcomeOK, nil
}

func (h *Handler) sendText(chatID int64, text string) error {
	_, err := h.sender.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// reportError tells the user what went wrong, as plain text.
func (h *Handler) reportError(log *zerolog.Logger, chatID int64, cause error) {
	if err := h.sendText(chatID, "Error: "+cause.Error()); err != nil {
		log.Error().Err(err).Msg("Failed to report error to chat")
	}
}

func metricLabel(command string) string {
	if command == CommandStart {
		return command
	}
	if _, ok := CommunityFor(command); ok {
		return command
	}
	return "unknown"
}
