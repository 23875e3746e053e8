package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-job-parser/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, keywords []string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL+"/post", "test-secret", NewCache(100), NewKeywordFilter(keywords), 2*time.Second)
	return client, srv
}

func TestSubmitSuccess(t *testing.T) {
	var gotSecret string
	var gotPayload ingestPayload

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-SECRET")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success"}`))
	}, []string{"python"})

	outcome := client.Submit(context.Background(), "HR Channel", "Ищем Python разработчика, удалённо", "https://t.me/hr/42", domain.SourceTypeTelegram)

	assert.Equal(t, StatusAccepted, outcome.Status)
	assert.True(t, outcome.Sent())
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "[TELEGRAM] HR Channel", gotPayload.ChatTitle)
	require.NotNil(t, gotPayload.Link)
	assert.Equal(t, "https://t.me/hr/42", *gotPayload.Link)
	assert.Equal(t, "telegram", gotPayload.SourceType)
}

func TestSubmitSecondCallInterceptedLocally(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"status":"success"}`))
	}, nil)

	first := client.Submit(context.Background(), "HR Channel", "hiring a developer", "", domain.SourceTypeTelegram)
	second := client.Submit(context.Background(), "HR Channel", "hiring a developer", "", domain.SourceTypeTelegram)

	assert.Equal(t, StatusAccepted, first.Status)
	assert.Equal(t, StatusSkippedDuplicate, second.Status)
	assert.Equal(t, int64(1), calls.Load(), "duplicate must not produce a second HTTP call")
}

func TestSubmitFilteredMakesNoCall(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, []string{"golang"})

	outcome := client.Submit(context.Background(), "Flea Market", "selling a bicycle", "", domain.SourceTypeFacebook)

	assert.Equal(t, StatusSkippedFiltered, outcome.Status)
	assert.Equal(t, int64(0), calls.Load())
}

func TestSubmitRemoteDuplicate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"duplicate","message":"Job already exists"}`))
	}, nil)

	outcome := client.Submit(context.Background(), "HR Channel", "vacancy text", "", domain.SourceTypeTelegram)

	assert.Equal(t, StatusDuplicate, outcome.Status)
	assert.True(t, outcome.Sent())
}

func TestSubmitErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		expected Status
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"Unauthorized"}`, StatusUnauthorized},
		{"validation failure", http.StatusBadRequest, `{"error":"URL is required"}`, StatusInvalid},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, StatusTransientFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}, nil)

			outcome := client.Submit(context.Background(), "ch", tt.name, "", domain.SourceTypeTelegram)
			assert.Equal(t, tt.expected, outcome.Status)
			assert.False(t, outcome.Sent())
		})
	}
}

func TestSubmitConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL + "/post"
	srv.Close()

	client := NewClient(endpoint, "s", NewCache(10), NewKeywordFilter(nil), time.Second)
	outcome := client.Submit(context.Background(), "ch", "text", "", domain.SourceTypeTelegram)

	assert.Equal(t, StatusTransientFailure, outcome.Status)
	assert.NotEmpty(t, outcome.Reason)
}
