package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-job-parser/internal/domain"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertPostingDeduplicates(t *testing.T) {
	s := openTestStorage(t)

	first := &domain.Posting{ChatTitle: "[TELEGRAM] HR Channel", Text: "Ищем Python разработчика", SourceType: domain.SourceTypeTelegram}
	require.NoError(t, s.InsertPosting(first))
	assert.NotZero(t, first.ID)
	assert.NotEmpty(t, first.ContentHash)

	// Identical (source_label, text) pair: rejected by the unique index,
	// surfaced as a recognized outcome rather than a generic error.
	second := &domain.Posting{ChatTitle: "[TELEGRAM] HR Channel", Text: "Ищем Python разработчика", SourceType: domain.SourceTypeTelegram}
	err := s.InsertPosting(second)
	assert.True(t, errors.Is(err, domain.ErrDuplicatePosting))

	_, total, err := s.ListPostings(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestInsertPostingDistinctSources(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.InsertPosting(&domain.Posting{ChatTitle: "Channel A", Text: "same text"}))
	require.NoError(t, s.InsertPosting(&domain.Posting{ChatTitle: "Channel B", Text: "same text"}))

	_, total, err := s.ListPostings(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestListPostingsMostRecentFirst(t *testing.T) {
	s := openTestStorage(t)

	older := &domain.Posting{ChatTitle: "ch", Text: "older", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.InsertPosting(older))
	newer := &domain.Posting{ChatTitle: "ch", Text: "newer"}
	require.NoError(t, s.InsertPosting(newer))

	postings, total, err := s.ListPostings(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, postings, 2)
	assert.Equal(t, "newer", postings[0].Text)

	limited, _, err := s.ListPostings(1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "older", limited[0].Text)
}

func TestChannelURLUniqueAcrossSourceTypes(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.AddChannel(&domain.TrackedChannel{URL: "myhrchannel", SourceType: domain.SourceTypeTelegram, Enabled: true}))

	// Uniqueness is a single global constraint on url, not (url, source_type).
	err := s.AddChannel(&domain.TrackedChannel{URL: "myhrchannel", SourceType: domain.SourceTypeFacebook, Enabled: true})
	assert.True(t, errors.Is(err, domain.ErrDuplicateChannel))
}

func TestDeleteChannel(t *testing.T) {
	s := openTestStorage(t)

	ch := &domain.TrackedChannel{URL: "todelete", SourceType: domain.SourceTypeTelegram, Enabled: true}
	require.NoError(t, s.AddChannel(ch))
	require.NoError(t, s.DeleteChannel(ch.ID))

	channels, err := s.ListChannels()
	require.NoError(t, err)
	assert.Empty(t, channels)

	// Unknown id is a no-op.
	assert.NoError(t, s.DeleteChannel(9999))
}
