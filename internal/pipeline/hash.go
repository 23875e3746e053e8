package pipeline

import (
	"crypto/md5"
	"encoding/hex"
)

const hashTextLimit = 200

// ContentHash fingerprints a candidate posting as the hex md5 of
// "<sourceLabel>:<first 200 runes of text>". The in-process cache, the
// outbound client and the durable unique index all go through this one
// function so every layer agrees on what counts as a duplicate.
func ContentHash(sourceLabel, text string) string {
	sum := md5.Sum([]byte(sourceLabel + ":" + truncateRunes(text, hashTextLimit)))
	return hex.EncodeToString(sum[:])
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
