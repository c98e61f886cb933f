package textutil

import (
	"strings"
	"unicode"
)

// nounStopWords filters capitalized tokens that are common sentence openers or
// dialogue filler rather than names.
var nounStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"this": {}, "that": {}, "from": {}, "have": {}, "has": {}, "had": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "what": {},
	"when": {}, "where": {}, "who": {}, "why": {}, "how": {}, "you": {},
	"your": {}, "yes": {}, "no": {}, "not": {}, "now": {}, "then": {},
	"there": {}, "here": {}, "well": {}, "okay": {}, "oh": {}, "hey": {},
	"look": {}, "listen": {}, "come": {}, "go": {}, "get": {}, "let": {},
	"don": {}, "it": {}, "its": {}, "he": {}, "she": {}, "we": {},
	"they": {}, "im": {}, "ive": {}, "ill": {}, "mr": {}, "mrs": {},
	"miss": {}, "sir": {}, "madam": {}, "god": {}, "lord": {},
}

// ProperNouns counts likely name tokens across dialogue lines.
//
// A token qualifies as a candidate when it appears capitalized in the middle
// of a sentence at least once; occurrences at sentence starts are then counted
// toward the same candidate, since subtitles capitalize every cue. Stop words
// and single-letter tokens never qualify.
func ProperNouns(lines []string) map[string]int {
	candidates := make(map[string]struct{})
	occurrences := make(map[string]int)

	for _, line := range lines {
		sentenceStart := true
		for _, token := range strings.Fields(line) {
			endsSentence := strings.ContainsAny(token, ".?!")
			word := trimWordPunct(token)
			if word == "" {
				sentenceStart = endsSentence || sentenceStart
				continue
			}
			if isNameShaped(word) {
				lower := strings.ToLower(word)
				if _, stop := nounStopWords[lower]; !stop {
					occurrences[word]++
					if !sentenceStart {
						candidates[word] = struct{}{}
					}
				}
			}
			sentenceStart = endsSentence
		}
	}

	result := make(map[string]int, len(candidates))
	for name := range candidates {
		result[name] = occurrences[name]
	}
	return result
}

// CountName returns the number of case-insensitive occurrences of name across
// the dialogue lines. Used to weight names extracted by the reasoning service
// against the raw dialogue.
func CountName(lines []string, name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return 0
	}
	count := 0
	for _, line := range lines {
		count += strings.Count(strings.ToLower(line), needle)
	}
	return count
}

// isNameShaped reports whether word looks like a single name token: initial
// uppercase letter, remaining letters or an internal apostrophe, and at least
// one lowercase letter so all-caps shouting does not qualify. Covers O'Brien
// and McCoy style names.
func isNameShaped(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	sawLower := false
	for i := 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsLower(r):
			sawLower = true
		case unicode.IsUpper(r):
		case r == '\'' && i < len(runes)-1:
		default:
			return false
		}
	}
	return sawLower
}

func trimWordPunct(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
