package pipeline

import (
	"strings"

	"github.com/samber/lo"
)

// KeywordFilter is a stateless substring predicate over free text. No
// tokenization, no stemming; keywords are trimmed and case-folded once at
// construction.
type KeywordFilter struct {
	keywords []string
}

func NewKeywordFilter(keywords []string) *KeywordFilter {
	cleaned := lo.FilterMap(keywords, func(kw string, _ int) (string, bool) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		return kw, kw != ""
	})
	return &KeywordFilter{keywords: cleaned}
}

// Matches returns true iff any keyword occurs in the case-folded text.
// An empty keyword set or empty text always matches: the absence of
// filtering criteria must not block ingestion.
func (f *KeywordFilter) Matches(text string) bool {
	if len(f.keywords) == 0 || text == "" {
		return true
	}
	textLower := strings.ToLower(text)
	return lo.ContainsBy(f.keywords, func(kw string) bool {
		return strings.Contains(textLower, kw)
	})
}
