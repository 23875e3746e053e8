// Package bot holds the operator-facing slash-command handlers for the
// server's Telegram bot.
package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type Handler struct {
	webAppURL string
}

func NewHandler(webAppURL string) *Handler {
	return &Handler{webAppURL: webAppURL}
}

func (h *Handler) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
}

// handleStart replies with a button that opens the job-search mini-app.
func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{
				Text:   "🔍 Открыть поиск вакансий",
				WebApp: &models.WebAppInfo{URL: h.webAppURL + "/index.html"},
			},
		}},
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "👋 Привет! Нажми на кнопку ниже, чтобы открыть поиск вакансий:",
		ReplyMarkup: keyboard,
	})
}
