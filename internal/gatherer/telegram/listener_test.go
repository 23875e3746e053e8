package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-job-parser/internal/pipeline"
)

func newListener(t *testing.T, calls *atomic.Int64, lastPayload *map[string]any) *Listener {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if lastPayload != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*lastPayload = body
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	t.Cleanup(srv.Close)

	client := pipeline.NewClient(srv.URL+"/post", "s", pipeline.NewCache(100), pipeline.NewKeywordFilter(nil), pipeline.RealtimeTimeout)
	return NewListener(client)
}

func channelPost(username, title, text string, id int) *models.Update {
	return &models.Update{
		ChannelPost: &models.Message{
			ID:   id,
			Text: text,
			Chat: models.Chat{Username: username, Title: title, Type: "channel"},
		},
	}
}

func TestHandleUpdateSubmitsChannelPost(t *testing.T) {
	var calls atomic.Int64
	var payload map[string]any
	l := newListener(t, &calls, &payload)

	l.HandleUpdate(context.Background(), nil, channelPost("hr_channel", "HR Channel", "Ищем разработчика", 42))

	require.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "[TELEGRAM] HR Channel", payload["chat_title"])
	assert.Equal(t, "https://t.me/hr_channel/42", payload["link"])
	assert.Equal(t, "telegram", payload["source_type"])
}

func TestHandleUpdateSkipsEmptyText(t *testing.T) {
	var calls atomic.Int64
	l := newListener(t, &calls, nil)

	l.HandleUpdate(context.Background(), nil, channelPost("hr_channel", "HR Channel", "   ", 1))
	l.HandleUpdate(context.Background(), nil, &models.Update{})

	assert.Zero(t, calls.Load())
}

func TestHandleUpdateHonorsAllowList(t *testing.T) {
	var calls atomic.Int64
	l := newListener(t, &calls, nil)
	l.SetChannels([]string{"Watched_Channel"})

	l.HandleUpdate(context.Background(), nil, channelPost("other_channel", "Other", "vacancy", 1))
	assert.Zero(t, calls.Load(), "posts from unlisted channels are ignored")

	l.HandleUpdate(context.Background(), nil, channelPost("watched_channel", "Watched", "vacancy", 2))
	assert.Equal(t, int64(1), calls.Load())

	// Disabling the last channel via an empty allow-list reopens the firehose.
	l.SetChannels(nil)
	l.HandleUpdate(context.Background(), nil, channelPost("anything", "Anything", "another vacancy", 3))
	assert.Equal(t, int64(2), calls.Load())
}

func TestHandleUpdateUsesCaptionFallback(t *testing.T) {
	var calls atomic.Int64
	var payload map[string]any
	l := newListener(t, &calls, &payload)

	update := &models.Update{
		ChannelPost: &models.Message{
			ID:      7,
			Caption: "vacancy in the caption",
			Chat:    models.Chat{Username: "hr_channel", Title: "HR", Type: "channel"},
		},
	}
	l.HandleUpdate(context.Background(), nil, update)

	require.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "vacancy in the caption", payload["text"])
}
