// Package telegram receives channel posts in real time through the bot
// API (the bot must be an administrator of each watched channel) and
// forwards them into the ingestion pipeline.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/pipeline"
)

type Listener struct {
	client  *pipeline.Client
	mu      sync.RWMutex
	allowed map[string]bool
}

func NewListener(client *pipeline.Client) *Listener {
	return &Listener{client: client, allowed: make(map[string]bool)}
}

// SetChannels replaces the channel allow-list with bare usernames. An
// empty list means every channel the bot can see is watched. The poller
// refreshes this on each cycle so newly added or disabled channels take
// effect without a restart.
func (l *Listener) SetChannels(usernames []string) {
	allowed := make(map[string]bool, len(usernames))
	for _, name := range usernames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			allowed[name] = true
		}
	}

	l.mu.Lock()
	l.allowed = allowed
	l.mu.Unlock()
}

// HandleUpdate is wired as the bot's default handler. Messages are handled
// one at a time, sequentially; per-message failures never stop the stream.
func (l *Listener) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.ChannelPost
	if msg == nil && update.Message != nil && update.Message.Chat.Type == "channel" {
		msg = update.Message
	}
	if msg == nil {
		return
	}
	l.processChannelPost(ctx, msg)
}

func (l *Listener) processChannelPost(ctx context.Context, msg *models.Message) {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	username := strings.ToLower(msg.Chat.Username)
	if !l.watches(username) {
		return
	}

	title := msg.Chat.Title
	if title == "" {
		title = msg.Chat.Username
	}
	if title == "" {
		title = "Unknown"
	}

	var link string
	if msg.Chat.Username != "" {
		link = fmt.Sprintf("https://t.me/%s/%d", msg.Chat.Username, msg.ID)
	}

	outcome := l.client.Submit(ctx, title, text, link, domain.SourceTypeTelegram)
	l.client.LogOutcome(outcome, title)
}

func (l *Listener) watches(username string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.allowed) == 0 {
		return true
	}
	return l.allowed[username]
}
