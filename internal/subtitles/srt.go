package subtitles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cue is a single subtitle entry. Start and End are seconds from video start.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the on-screen time of the cue in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// adPatterns match promotional cues injected by subtitle distributors.
// Blocks matching any pattern are dropped during parsing.
var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles?\s+by`),
	regexp.MustCompile(`(?i)sync(ed)?\s*(and|&)\s*correct(ed|ions)?\s*by`),
	regexp.MustCompile(`(?i)captioned\s+by`),
	regexp.MustCompile(`(?i)https?://`),
	regexp.MustCompile(`(?i)www\.\S+`),
	regexp.MustCompile(`(?i)subscene`),
	regexp.MustCompile(`(?i)addic7ed`),
	regexp.MustCompile(`(?i)\b(yts|yify)\b`),
	regexp.MustCompile(`(?i)rate\s+this\s+subtitle`),
	regexp.MustCompile(`(?i)support\s+us\s+and\s+become`),
	regexp.MustCompile(`(?i)advertise\s+your\s+product`),
}

var (
	formattingTags = regexp.MustCompile(`<[^>]*>|\{[^}]*\}`)
	bracketedCues  = regexp.MustCompile(`\[[^\]]*\]`)
	multiSpace     = regexp.MustCompile(`\s{2,}`)
)

// ParseSRT parses SRT content into timed cues.
//
// Parsing is tolerant: malformed blocks are skipped, formatting tags and
// bracketed sound descriptions are stripped from cue text, and advertisement
// cues are dropped entirely. An error is returned only when the content
// yields no usable cues at all.
func ParseSRT(content string) ([]Cue, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty subtitle content")
	}

	blocks := strings.Split(content, "\n\n")
	cues := make([]Cue, 0, len(blocks))
	for _, block := range blocks {
		cue, ok := parseBlock(block)
		if !ok {
			continue
		}
		cue.Index = len(cues) + 1
		cues = append(cues, cue)
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("no parsable cues found")
	}
	return cues, nil
}

// parseBlock parses one SRT block. The boolean is false for blocks without a
// valid timing line and for advertisement blocks.
func parseBlock(block string) (Cue, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	timingIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timingIdx = i
			break
		}
	}
	if timingIdx < 0 || timingIdx == len(lines)-1 {
		return Cue{}, false
	}

	start, end, err := parseTimingLine(lines[timingIdx])
	if err != nil {
		return Cue{}, false
	}

	textLines := lines[timingIdx+1:]
	if blockIsAdvertisement(textLines) {
		return Cue{}, false
	}

	return Cue{Start: start, End: end, Text: cleanCueText(textLines)}, true
}

// parseTimingLine parses "HH:MM:SS,mmm --> HH:MM:SS,mmm" with optional
// trailing position attributes.
func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing arrow in timing line %q", line)
	}
	startFields := strings.Fields(parts[0])
	if len(startFields) == 0 {
		return 0, 0, fmt.Errorf("missing start timestamp in timing line %q", line)
	}
	start, err := parseSRTTimestamp(startFields[0])
	if err != nil {
		return 0, 0, err
	}
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in timing line %q", line)
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("end precedes start in timing line %q", line)
	}
	return start, end, nil
}

// parseSRTTimestamp parses an SRT timestamp (HH:MM:SS,mmm) into seconds.
// A period before the milliseconds is accepted as a comma variant.
func parseSRTTimestamp(raw string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ".", ","))
	parts := strings.Split(cleaned, ",")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", raw)
	}
	clock := strings.Split(parts[0], ":")
	if len(clock) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", raw)
	}
	hours, err := strconv.Atoi(clock[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timestamp %q", raw)
	}
	minutes, err := strconv.Atoi(clock[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timestamp %q", raw)
	}
	seconds, err := strconv.Atoi(clock[2])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timestamp %q", raw)
	}
	millis, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds in timestamp %q", raw)
	}
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000, nil
}

// blockIsAdvertisement reports whether any text line matches a known
// distributor promotion pattern.
func blockIsAdvertisement(textLines []string) bool {
	for _, line := range textLines {
		for _, pattern := range adPatterns {
			if pattern.MatchString(line) {
				return true
			}
		}
	}
	return false
}

// cleanCueText joins cue text lines into a single line of plain dialogue.
// Formatting tags, bracketed sound descriptions, music note markers, and
// leading speaker dashes are removed.
func cleanCueText(textLines []string) string {
	cleaned := make([]string, 0, len(textLines))
	for _, line := range textLines {
		line = formattingTags.ReplaceAllString(line, "")
		line = bracketedCues.ReplaceAllString(line, "")
		line = strings.ReplaceAll(line, "♪", "")
		line = strings.ReplaceAll(line, "♫", "")
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	joined := strings.Join(cleaned, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(joined, " "))
}
