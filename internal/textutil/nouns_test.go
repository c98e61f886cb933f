package textutil_test

import (
	"testing"

	"platter/internal/textutil"
)

func TestProperNounsRequiresMidSentenceEvidence(t *testing.T) {
	lines := []string{
		"Eleanor, wait for me.",
		"I told Eleanor about the plan.",
		"Stop right there.",
		"Stop means stop.",
	}

	nouns := textutil.ProperNouns(lines)

	if got := nouns["Eleanor"]; got != 2 {
		t.Fatalf("expected Eleanor counted twice (sentence start + mid), got %d", got)
	}
	if _, ok := nouns["Stop"]; ok {
		t.Fatal("Stop only appears at sentence starts and must not qualify")
	}
	if _, ok := nouns["I"]; ok {
		t.Fatal("single-letter tokens must not qualify")
	}
}

func TestProperNounsFiltersStopWordsAndShouting(t *testing.T) {
	lines := []string{
		"We should ask Malcolm about it.",
		"RUN, everybody RUN!",
		"The answer is with Malcolm.",
	}

	nouns := textutil.ProperNouns(lines)

	if got := nouns["Malcolm"]; got != 2 {
		t.Fatalf("expected Malcolm counted twice, got %d", got)
	}
	if _, ok := nouns["RUN"]; ok {
		t.Fatal("all-caps tokens must not qualify")
	}
	if _, ok := nouns["The"]; ok {
		t.Fatal("stop words must not qualify")
	}
}

func TestProperNounsHandlesApostropheNames(t *testing.T) {
	lines := []string{
		"Tell O'Brien the shuttle is ready.",
		"Where did O'Brien go?",
	}

	nouns := textutil.ProperNouns(lines)
	if got := nouns["O'Brien"]; got != 2 {
		t.Fatalf("expected O'Brien counted twice, got %d", got)
	}
}

func TestCountName(t *testing.T) {
	lines := []string{
		"Sarah Connor?",
		"Come with me if you want to live, Sarah.",
	}
	if got := textutil.CountName(lines, "sarah"); got != 2 {
		t.Fatalf("expected 2 occurrences of sarah, got %d", got)
	}
	if got := textutil.CountName(lines, "Sarah Connor"); got != 1 {
		t.Fatalf("expected 1 occurrence of full name, got %d", got)
	}
	if got := textutil.CountName(lines, ""); got != 0 {
		t.Fatalf("expected empty name to count 0, got %d", got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Quick & The Dead", "thequickandthedead"},
		{"Mad Max 2", "madmax2"},
		{"  ", ""},
		{"Spider-Man: Homecoming", "spidermanhomecoming"},
	}
	for _, tc := range cases {
		if got := textutil.NormalizeTitle(tc.in); got != tc.want {
			t.Fatalf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsName(t *testing.T) {
	if !textutil.ContainsName("Det. James Gordon", "james gordon") {
		t.Fatal("expected credited name with qualifier to match")
	}
	if textutil.ContainsName("James Gordon", "") {
		t.Fatal("empty name must not match")
	}
}
