package domain

import (
	"regexp"
	"strings"
)

var tmeUsernameRegex = regexp.MustCompile(`t\.me/([a-zA-Z0-9_]+)`)

// NormalizeChannelURL reduces a Telegram channel reference to its bare
// username: "https://t.me/myhrchannel" and "@myhrchannel" both become
// "myhrchannel". Non-Telegram URLs are only trimmed.
func NormalizeChannelURL(url string, sourceType SourceType) string {
	url = strings.TrimSpace(url)
	if sourceType != SourceTypeTelegram {
		return url
	}
	if match := tmeUsernameRegex.FindStringSubmatch(url); match != nil {
		url = match[1]
	}
	return strings.TrimPrefix(url, "@")
}
