package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/gatherer"
)

func TestParseRows(t *testing.T) {
	rows := [][]interface{}{
		{"Type", "URL", "Enabled"},
		{"telegram", "https://t.me/jobs_channel", "yes"},
		{"telegram", "@paused_channel", "no"},
		{"facebook", "https://facebook.com/groups/golangjobs", "да"},
		{"", "plain_channel", "1"},
		{"telegram", "", "yes"}, // no url, dropped
	}

	assert.Equal(t, []gatherer.Channel{
		{URL: "jobs_channel", SourceType: domain.SourceTypeTelegram},
		{URL: "https://facebook.com/groups/golangjobs", SourceType: domain.SourceTypeFacebook},
		{URL: "plain_channel", SourceType: domain.SourceTypeTelegram},
	}, ParseRows(rows))
}

func TestParseRowsWithoutEnabledColumn(t *testing.T) {
	rows := [][]interface{}{
		{"url"},
		{"jobs_channel"},
		{"another_channel"},
	}

	channels := ParseRows(rows)
	assert.Len(t, channels, 2, "missing enabled column means every row is enabled")
}

func TestParseRowsRejectsHeaderlessSheet(t *testing.T) {
	assert.Nil(t, ParseRows(nil))
	assert.Nil(t, ParseRows([][]interface{}{{"url"}}))
	assert.Nil(t, ParseRows([][]interface{}{
		{"name", "comment"},
		{"jobs_channel", "looks like a url but the header never says so"},
	}))
}
