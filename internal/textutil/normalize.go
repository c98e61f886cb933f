package textutil

import (
	"strings"
	"unicode"
)

// NormalizeTitle reduces a title to a comparison key: lowercase, common
// symbols replaced with word equivalents, everything but letters and digits
// stripped. Two titles that normalize equal are treated as an exact match by
// the scorer.
func NormalizeTitle(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "&", "and")
	normalized = strings.ReplaceAll(normalized, "+", "and")

	var builder strings.Builder
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// ContainsName reports whether haystack contains name after case folding.
// Used for character-to-cast overlap checks where credited names may carry
// extra qualifiers ("Det. James Gordon").
func ContainsName(haystack, name string) bool {
	h := strings.ToLower(strings.TrimSpace(haystack))
	n := strings.ToLower(strings.TrimSpace(name))
	if h == "" || n == "" {
		return false
	}
	return strings.Contains(h, n)
}
