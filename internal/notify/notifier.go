// Package notify relays freshly stored postings to the operator chat.
// Delivery is best-effort: a single send with a bounded timeout, no retry,
// no queue.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"

	"telegram-job-parser/internal/domain"
)

// Notifier pushes a new-posting alert to the operator.
type Notifier interface {
	Notify(ctx context.Context, p *domain.Posting) error
}

const sendTimeout = 10 * time.Second

var sourceMarkers = map[domain.SourceType]string{
	domain.SourceTypeTelegram: "📱",
	domain.SourceTypeFacebook: "📘",
	domain.SourceTypeGoogle:   "📊",
}

type TelegramNotifier struct {
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotifier(b *bot.Bot, chatID string) *TelegramNotifier {
	return &TelegramNotifier{bot: b, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, p *domain.Posting) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      FormatMessage(p),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return oops.With("chat_id", n.chatID, "context", "sending notification").Wrap(err)
	}
	return nil
}

// FormatMessage renders the operator alert: a source-type marker, the
// origin, a body preview capped at 200 runes, and the permalink when known.
func FormatMessage(p *domain.Posting) string {
	marker, ok := sourceMarkers[p.SourceType]
	if !ok {
		marker = "📋"
	}

	msg := fmt.Sprintf("%s <b>Новая вакансия</b>\n\n", marker)
	msg += fmt.Sprintf("📢 Источник: %s\n", html.EscapeString(p.ChatTitle))
	msg += fmt.Sprintf("📝 Текст: %s\n", html.EscapeString(truncate(p.Text, 200)))
	if p.Link != "" {
		msg += fmt.Sprintf("🔗 Ссылка: %s\n", p.Link)
	}
	return msg
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
