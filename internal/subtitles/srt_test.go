package subtitles

import (
	"math"
	"strings"
	"testing"
)

func TestParseSRT(t *testing.T) {
	content := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:04,000",
		"<i>Hello, Malcolm.</i>",
		"",
		"2",
		"00:00:05,500 --> 00:00:07,250 X1:100 X2:200",
		"- Who's there?",
		"- [door slams]",
		"",
		"3",
		"00:01:00,000 --> 00:01:04,000",
		"Subtitles by SomeGroup",
		"",
		"not a block",
		"",
		"5",
		"00:02:00.000 --> 00:02:03,000",
		"♪ La la la ♪",
		"",
	}, "\n")

	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %+v", len(cues), cues)
	}

	if cues[0].Text != "Hello, Malcolm." {
		t.Errorf("cue 1 text = %q, want %q", cues[0].Text, "Hello, Malcolm.")
	}
	if cues[0].Start != 1.0 || cues[0].End != 4.0 {
		t.Errorf("cue 1 timing = %.3f-%.3f, want 1.000-4.000", cues[0].Start, cues[0].End)
	}

	if cues[1].Text != "Who's there?" {
		t.Errorf("cue 2 text = %q, want %q", cues[1].Text, "Who's there?")
	}
	if cues[1].Start != 5.5 || cues[1].End != 7.25 {
		t.Errorf("cue 2 timing = %.3f-%.3f, want 5.500-7.250", cues[1].Start, cues[1].End)
	}

	if cues[2].Text != "La la la" {
		t.Errorf("cue 3 text = %q, want %q", cues[2].Text, "La la la")
	}
	if cues[2].Start != 120.0 {
		t.Errorf("cue 3 start = %.3f, want 120.000", cues[2].Start)
	}
	if cues[2].Index != 3 {
		t.Errorf("cue 3 reindexed to %d, want 3", cues[2].Index)
	}
}

func TestParseSRTHandlesBOMAndCRLF(t *testing.T) {
	content := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n\r\n"
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "Hi" {
		t.Fatalf("expected single cue with text Hi, got %+v", cues)
	}
}

func TestParseSRTRejectsUnusableContent(t *testing.T) {
	if _, err := ParseSRT(""); err == nil {
		t.Error("expected error for empty content")
	}
	if _, err := ParseSRT("no cues here\njust prose"); err == nil {
		t.Error("expected error for content without cues")
	}
}

func TestParseSRTTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"00:00:01,000", 1.0, false},
		{"01:02:03,456", 3723.456, false},
		{"00:00:01.500", 1.5, false},
		{"10:00:00,000", 36000.0, false},
		{"00:01", 0, true},
		{"aa:bb:cc,ddd", 0, true},
		{"00:00:01", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSRTTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSRTTimestamp(%q) failed: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 0.0005 {
				t.Errorf("parseSRTTimestamp(%q) = %f, want %f", tt.input, got, tt.want)
			}
		})
	}
}

func TestCueDuration(t *testing.T) {
	cue := Cue{Start: 10.5, End: 13.0}
	if d := cue.Duration(); d != 2.5 {
		t.Errorf("Duration = %f, want 2.5", d)
	}
}
