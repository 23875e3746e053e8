package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-job-parser/internal/domain"
)

func TestFormatMessageMarkers(t *testing.T) {
	tests := []struct {
		sourceType domain.SourceType
		marker     string
	}{
		{domain.SourceTypeTelegram, "📱"},
		{domain.SourceTypeFacebook, "📘"},
		{domain.SourceTypeGoogle, "📊"},
		{domain.SourceTypeOther, "📋"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sourceType), func(t *testing.T) {
			msg := FormatMessage(&domain.Posting{ChatTitle: "ch", Text: "text", SourceType: tt.sourceType})
			assert.True(t, strings.HasPrefix(msg, tt.marker))
		})
	}
}

func TestFormatMessageTruncatesPreview(t *testing.T) {
	long := strings.Repeat("ж", 250)
	msg := FormatMessage(&domain.Posting{ChatTitle: "ch", Text: long, SourceType: domain.SourceTypeTelegram})

	assert.Contains(t, msg, strings.Repeat("ж", 200)+"...")
	assert.NotContains(t, msg, strings.Repeat("ж", 201))
}

func TestFormatMessageLinkAndEscaping(t *testing.T) {
	withLink := FormatMessage(&domain.Posting{ChatTitle: "a <b> channel", Text: "t", Link: "https://t.me/ch/1"})
	assert.Contains(t, withLink, "🔗 Ссылка: https://t.me/ch/1")
	assert.Contains(t, withLink, "a &lt;b&gt; channel")

	withoutLink := FormatMessage(&domain.Posting{ChatTitle: "ch", Text: "t"})
	assert.NotContains(t, withoutLink, "🔗")
}
