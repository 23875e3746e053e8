package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"telegram-job-parser/internal/domain"
)

// Status classifies the result of a submission attempt.
type Status string

const (
	// StatusAccepted means the endpoint stored a new posting.
	StatusAccepted Status = "accepted"
	// StatusDuplicate means the endpoint already had the posting.
	StatusDuplicate Status = "duplicate"
	// StatusSkippedDuplicate means the local cache intercepted the
	// submission; no HTTP call was made.
	StatusSkippedDuplicate Status = "skipped_duplicate"
	// StatusSkippedFiltered means the keyword filter rejected the text;
	// no HTTP call was made.
	StatusSkippedFiltered  Status = "skipped_filtered"
	StatusUnauthorized     Status = "unauthorized"
	StatusInvalid          Status = "invalid"
	StatusTransientFailure Status = "transient_failure"
)

// Outcome is the explicit result of Submit. Callers decide logging and
// counting from the variant instead of catching errors.
type Outcome struct {
	Status Status
	Reason string
}

// Sent reports whether the submission reached the endpoint and was
// acknowledged (a remote duplicate still counts as acknowledged).
func (o Outcome) Sent() bool {
	return o.Status == StatusAccepted || o.Status == StatusDuplicate
}

// DefaultTimeout bounds an ingestion call from a periodic poller.
// RealtimeTimeout is the tighter bound used on the real-time Telegram path.
const (
	DefaultTimeout  = 10 * time.Second
	RealtimeTimeout = 8 * time.Second
)

type ingestPayload struct {
	ChatTitle  string  `json:"chat_title"`
	Text       string  `json:"text"`
	Link       *string `json:"link"`
	SourceType string  `json:"source_type"`
}

type ingestResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Client routes candidate posts through the dedup cache and keyword filter,
// then fires a single POST at the ingestion endpoint. At most one attempt
// per post: failures are reported in the Outcome, never retried.
type Client struct {
	endpoint string
	secret   string
	cache    *Cache
	filter   *KeywordFilter
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(endpoint, secret string, cache *Cache, filter *KeywordFilter, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		secret:   secret,
		cache:    cache,
		filter:   filter,
		http:     &http.Client{Timeout: timeout},
		logger:   slog.Default(),
	}
}

func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Submit pushes one candidate post toward the ingestion endpoint. The
// source label is used unprefixed for the local dedup hash; the wire
// chat_title carries a "[SOURCETYPE] " prefix so the operator can tell
// origins apart, and the endpoint re-hashes that title independently.
func (c *Client) Submit(ctx context.Context, sourceLabel, text, link string, sourceType domain.SourceType) Outcome {
	if c.cache.Seen(sourceLabel, text) {
		return Outcome{Status: StatusSkippedDuplicate}
	}
	if !c.filter.Matches(text) {
		return Outcome{Status: StatusSkippedFiltered}
	}

	payload := ingestPayload{
		ChatTitle:  fmt.Sprintf("[%s] %s", strings.ToUpper(sourceType.String()), sourceLabel),
		Text:       text,
		SourceType: sourceType.String(),
	}
	if link != "" {
		payload.Link = &link
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Status: StatusInvalid, Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{Status: StatusInvalid, Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-SECRET", c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Status: StatusTransientFailure, Reason: err.Error()}
	}
	defer resp.Body.Close()

	var parsed ingestResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &parsed)

	switch resp.StatusCode {
	case http.StatusOK:
		if parsed.Status == "duplicate" {
			return Outcome{Status: StatusDuplicate}
		}
		return Outcome{Status: StatusAccepted}
	case http.StatusUnauthorized:
		return Outcome{Status: StatusUnauthorized, Reason: parsed.Error}
	case http.StatusBadRequest:
		return Outcome{Status: StatusInvalid, Reason: parsed.Error}
	default:
		return Outcome{Status: StatusTransientFailure, Reason: fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}
}

// LogOutcome writes the standard per-post log line for an outcome.
func (c *Client) LogOutcome(o Outcome, sourceLabel string) {
	switch o.Status {
	case StatusAccepted:
		c.logger.Info("Posting sent", "source", sourceLabel)
	case StatusDuplicate:
		c.logger.Info("Posting already stored", "source", sourceLabel)
	case StatusSkippedDuplicate:
		c.logger.Debug("Duplicate skipped locally", "source", sourceLabel)
	case StatusSkippedFiltered:
		c.logger.Debug("No keyword match", "source", sourceLabel)
	case StatusUnauthorized:
		c.logger.Error("Ingestion rejected: bad shared secret", "source", sourceLabel)
	default:
		c.logger.Warn("Ingestion call failed", "source", sourceLabel, "status", string(o.Status), "reason", o.Reason)
	}
}
