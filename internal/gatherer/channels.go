// Package gatherer coordinates the source gatherers: it assembles the
// tracked-channel list from several sources and drives the periodic poll
// cycle. Real-time Telegram traffic is handled by the listener subpackage.
package gatherer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"telegram-job-parser/internal/domain"
)

// Channel is a normalized source reference a gatherer should watch.
type Channel struct {
	URL        string
	SourceType domain.SourceType
}

// Source yields tracked channels. Implementations exist for the static env
// list, the Google Sheets sheet and the management API; each already
// excludes disabled entries.
type Source interface {
	Channels(ctx context.Context) ([]Channel, error)
}

// StaticSource serves a fixed, env-configured channel list.
type StaticSource struct {
	channels []Channel
}

func NewStaticSource(urls []string, sourceType domain.SourceType) *StaticSource {
	return &StaticSource{
		channels: lo.Map(urls, func(url string, _ int) Channel {
			return Channel{URL: domain.NormalizeChannelURL(url, sourceType), SourceType: sourceType}
		}),
	}
}

func (s *StaticSource) Channels(_ context.Context) ([]Channel, error) {
	return s.channels, nil
}

// APISource pulls the operator-managed channel list from the management
// API, so channels added through the mini-app reach the gatherers without
// a restart. Disabled channels are filtered out here.
type APISource struct {
	url  string
	http *http.Client
}

func NewAPISource(url string) *APISource {
	return &APISource{url: url, http: &http.Client{Timeout: 10 * time.Second}}
}

func (s *APISource) Channels(ctx context.Context) ([]Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, oops.With("url", s.url).Wrap(err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, oops.With("url", s.url).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("url", s.url).Errorf("channel API returned %d", resp.StatusCode)
	}

	var body struct {
		Channels []domain.TrackedChannel `json:"channels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, oops.With("url", s.url, "context", "decoding channel list").Wrap(err)
	}

	return lo.FilterMap(body.Channels, func(ch domain.TrackedChannel, _ int) (Channel, bool) {
		if !ch.Enabled {
			return Channel{}, false
		}
		return Channel{URL: ch.URL, SourceType: ch.SourceType}, true
	}), nil
}

// TelegramUsernames extracts the Telegram channel usernames from a merged
// channel list, for the real-time listener's allow-list.
func TelegramUsernames(channels []Channel) []string {
	return lo.FilterMap(channels, func(ch Channel, _ int) (string, bool) {
		return ch.URL, ch.SourceType == domain.SourceTypeTelegram
	})
}
