package pipeline

import (
	"testing"
)

func TestKeywordFilterMatches(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		text     string
		expected bool
	}{
		{
			name:     "empty keyword set is permissive",
			keywords: nil,
			text:     "anything at all",
			expected: true,
		},
		{
			name:     "empty text is permissive",
			keywords: []string{"job", "vacancy"},
			text:     "",
			expected: true,
		},
		{
			name:     "case-folded substring match",
			keywords: []string{"python"},
			text:     "Ищем Python разработчика, удалённо",
			expected: true,
		},
		{
			name:     "cyrillic keyword",
			keywords: []string{"вакансия", "работа"},
			text:     "Срочная ВАКАНСИЯ: курьер",
			expected: true,
		},
		{
			name:     "keywords are trimmed before matching",
			keywords: []string{"  hiring  "},
			text:     "We are hiring now",
			expected: true,
		},
		{
			name:     "no keyword present",
			keywords: []string{"golang", "backend"},
			text:     "Selling a used bicycle",
			expected: false,
		},
		{
			name:     "blank keywords are dropped, not treated as match-all",
			keywords: []string{"", "  ", "developer"},
			text:     "Selling a used bicycle",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewKeywordFilter(tt.keywords)
			if got := f.Matches(tt.text); got != tt.expected {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}
