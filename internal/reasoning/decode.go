package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoPayload indicates the response text contained no decodable JSON
// payload. Callers degrade to a synthesized unknown result instead of
// failing the unit.
var ErrNoPayload = errors.New("no structured payload found")

// Decode decodes JSON from a reasoning response, handling common formatting
// quirks: code fences, leading prose, trailing commentary. The first balanced
// JSON object or array found in the text wins.
func Decode(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrNoPayload
	}

	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}

	stripped := stripCodeFence(trimmed)
	if stripped != trimmed {
		if err := json.Unmarshal([]byte(stripped), target); err == nil {
			return nil
		}
	}

	payload, ok := firstBalancedPayload(stripped)
	if !ok {
		return fmt.Errorf("%w (response snippet: %s)", ErrNoPayload, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("decode extracted payload: %w (snippet: %s)", err, snippet(payload))
	}
	return nil
}

// firstBalancedPayload scans for the first balanced {...} or [...] region,
// respecting string literals and escapes, so prose braces before or after the
// payload do not confuse extraction.
func firstBalancedPayload(content string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if content[i] == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	if clean == "" {
		return "<empty>"
	}
	return clean
}
