package discname

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// Parsed carries the hints recoverable from a disc directory name. Zero
// values mean the hint was absent.
type Parsed struct {
	Raw    string `json:"raw"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Season int    `json:"season,omitempty"`
	Disc   int    `json:"disc,omitempty"`
}

var (
	separatorReplacer   = strings.NewReplacer("_", " ", "-", " ", "–", " ")
	parenthesesStripper = strings.NewReplacer("(", " ", ")", " ")
	whitespacePattern   = regexp.MustCompile(`\s+`)
	seasonPattern       = regexp.MustCompile(`(?i)\bseason\s*(\d{1,2})\b`)
	sPattern            = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)
	discPattern         = regexp.MustCompile(`(?i)\b(?:disc|disk|dvd|vol(?:ume)?)\s*(\d{1,2})\b`)
	dPattern            = regexp.MustCompile(`(?i)\bD(\d{1,2})\b`)
	discNoisePattern    = regexp.MustCompile(`(?i)\b(?:disc|disk|dvd|blu[- ]?ray|bd)\s*[0-9ivxlcdm]*\b`)
	descriptorNoise     = regexp.MustCompile(`(?i)\b(?:TV\s+Series|TV\s+Show|The\s+Complete\s+Series|Complete\s+Series|Special\s+Edition|Extended\s+Edition|Widescreen|Full\s*Screen)\b`)
	trailingYearPattern = regexp.MustCompile(`(?i)\s*(?:\(|\b)(\d{4})\)?\s*$`)
)

var titleCaser = cases.Title(xlang.English)

// Parse extracts title, year, season, and disc hints from a disc directory
// name such as "BREAKING_BAD_S01_DISC2" or "GOODFELLAS (1990)".
func Parse(name string) Parsed {
	parsed := Parsed{Raw: name}
	value := strings.TrimSpace(name)
	if value == "" {
		return parsed
	}

	// keydb-style "DISC_LABEL (Canonical Title)" labels carry the real
	// title in the parentheses.
	if canonical := extractCanonical(value); canonical != "" {
		value = canonical
	}

	value = separatorReplacer.Replace(value)
	value = parenthesesStripper.Replace(value)

	if match := seasonPattern.FindStringSubmatch(value); len(match) == 2 {
		parsed.Season = parseNumber(match[1])
	} else if match := sPattern.FindStringSubmatch(value); len(match) == 2 {
		parsed.Season = parseNumber(match[1])
	}

	if match := discPattern.FindStringSubmatch(value); len(match) == 2 {
		parsed.Disc = parseNumber(match[1])
	} else if match := dPattern.FindStringSubmatch(value); len(match) == 2 {
		parsed.Disc = parseNumber(match[1])
	}

	cleaned := seasonPattern.ReplaceAllString(value, " ")
	cleaned = sPattern.ReplaceAllString(cleaned, " ")
	cleaned = discPattern.ReplaceAllString(cleaned, " ")
	cleaned = dPattern.ReplaceAllString(cleaned, " ")
	cleaned = discNoisePattern.ReplaceAllString(cleaned, " ")
	cleaned = descriptorNoise.ReplaceAllString(cleaned, " ")

	title, year := splitTitleYear(cleaned)
	parsed.Year = year

	title = strings.TrimSpace(whitespacePattern.ReplaceAllString(title, " "))
	title = stripPunctuationTokens(title)
	if title != "" && !hasLower(title) {
		title = titleCaser.String(strings.ToLower(title))
	}
	parsed.Title = title
	return parsed
}

// IsTVHint reports whether the raw name alone suggests episodic content.
func (p Parsed) IsTVHint() bool {
	return p.Season > 0 || strings.Contains(strings.ToLower(p.Raw), "complete series")
}

// extractCanonical parses "DISC_LABEL (Canonical Title)" and returns the
// canonical title, or "" when the parentheses hold a year or disc info
// rather than a title.
func extractCanonical(value string) string {
	if !strings.HasSuffix(value, ")") {
		return ""
	}
	openIdx := matchingOpenParen(value)
	if openIdx <= 0 {
		return ""
	}
	if hasLower(strings.TrimSpace(value[:openIdx])) {
		return ""
	}
	inner := strings.TrimSpace(value[openIdx+1 : len(value)-1])
	if len(inner) < 3 {
		return ""
	}
	if len(inner) == 4 && parseNumber(inner) > 0 {
		return ""
	}
	innerUpper := strings.ToUpper(inner)
	for _, prefix := range []string{"DISC", "VOL", "DVD", "BD"} {
		if strings.HasPrefix(innerUpper, prefix) {
			return ""
		}
	}
	return inner
}

func matchingOpenParen(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTitleYear(value string) (string, int) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", 0
	}
	matches := trailingYearPattern.FindStringSubmatch(trimmed)
	if len(matches) != 2 {
		return trimmed, 0
	}
	year := parseNumber(matches[1])
	if year < 1880 || year > 2100 {
		return trimmed, 0
	}
	cleaned := strings.TrimSpace(trailingYearPattern.ReplaceAllString(trimmed, ""))
	if cleaned == "" {
		return trimmed, 0
	}
	return cleaned, year
}

func stripPunctuationTokens(value string) string {
	if value == "" {
		return ""
	}
	tokens := strings.Fields(value)
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if hasAlphaNumeric(token) {
			filtered = append(filtered, token)
		}
	}
	return strings.Join(filtered, " ")
}

func hasAlphaNumeric(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasLower(value string) bool {
	for _, r := range value {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func parseNumber(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
