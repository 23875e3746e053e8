package server

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-job-parser/internal/domain"
)

func TestFeedServesStoredPostings(t *testing.T) {
	srv, store := newTestServer(t, &fakeNotifier{})

	require.NoError(t, store.InsertPosting(&domain.Posting{
		ChatTitle:  "[TELEGRAM] HR Channel",
		Text:       "Ищем Go разработчика",
		Link:       "https://t.me/hr_channel/1",
		SourceType: domain.SourceTypeTelegram,
	}))

	resp, err := http.Get(srv.URL + "/feed.xml")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "Ищем Go разработчика")
	assert.Contains(t, body, "https://t.me/hr_channel/1")
}

func TestBuildFeedTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("я", 150)
	feed := buildFeed([]domain.Posting{
		{ID: 1, ChatTitle: "[TELEGRAM] HR", Text: long, SourceType: domain.SourceTypeTelegram, CreatedAt: time.Now()},
	}, "http://localhost:8000")

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, strings.Repeat("я", 100)+"...", item.Title)
	assert.Equal(t, long, item.Description)
	assert.Equal(t, "telegram-1", item.Id)
	assert.Equal(t, "http://localhost:8000", item.Link.Href, "postings without a permalink fall back to the site root")
}
