package bot

import (
	"sort"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qepting91/subreddit-bot/internal/domain"
)

const (
	greetingText = "Hello! I am your bot"
	noPostsText  = "No posts available"

	// maxMessageLength is Telegram's limit, counted in UTF-16 code units.
	maxMessageLength = 4096
	ellipsis         = "…"
)

// FormatPost renders post as a legacy-Markdown message with its title, body
// and a link built from linkBase and the post's permalink. The body is
// shortened so the message fits in a single Telegram message.
func FormatPost(post *domain.Post, linkBase string) string {
	head := "*Title:* " + escapeMarkdown(post.Title) + "\n\n*Text:* "
	tail := "\n\n[Link](" + linkBase + post.Permalink + ")"

	budget := maxMessageLength - utf16Len(head) - utf16Len(tail)
	return head + fitBody(post.Body, budget) + tail
}

func escapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// fitBody escapes body and, when it does not fit in budget UTF-16 units,
// keeps the longest raw prefix whose escaped form plus an ellipsis fits.
// Cuts happen on the raw text so escape sequences stay intact.
func fitBody(body string, budget int) string {
	if budget <= 0 {
		return ""
	}
	escaped := escapeMarkdown(body)
	if utf16Len(escaped) <= budget {
		return escaped
	}

	room := budget - utf16Len(ellipsis)
	if room < 0 {
		return ""
	}
	runes := []rune(body)
	// Escaped length grows with the prefix, so the first prefix that no
	// longer fits is one past the answer.
	n := sort.Search(len(runes)+1, func(i int) bool {
		return utf16Len(escapeMarkdown(string(runes[:i]))) > room
	}) - 1
	return escapeMarkdown(string(runes[:n])) + ellipsis
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}
