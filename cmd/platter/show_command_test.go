package main

import (
	"path/filepath"
	"strings"
	"testing"

	"platter/internal/catalog"
	"platter/internal/pipeline"
	"platter/internal/search"
)

func TestShowRendersRecord(t *testing.T) {
	diskDir := t.TempDir()

	record := pipeline.NewRecord(diskDir, "run-0001")
	record.ContentType = search.ContentMovie
	record.Videos = []pipeline.VideoRecord{
		{
			Identifier:        "title00",
			Path:              filepath.Join(diskDir, "title00.mkv"),
			DurationSeconds:   8700,
			SizeBytes:         1073741824,
			VideoCodec:        "h264",
			Width:             1920,
			Height:            1080,
			SubtitleLanguages: []string{"en"},
		},
	}
	best := search.Candidate{
		ExternalID:     "tt0099685",
		Title:          "Goodfellas",
		Year:           1990,
		Kind:           catalog.KindMovie,
		RuntimeMinutes: 145,
		Score:          110,
		Confidence:     "high",
	}
	record.Candidates = []search.Candidate{best}
	record.BestMatch = &best
	for step := pipeline.StepScan; step <= pipeline.StepFinalize; step++ {
		record.Status.MarkCompleted(step)
	}
	record.Status.Terminal = pipeline.TerminalCompleted
	if err := record.Save(); err != nil {
		t.Fatalf("save record: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", diskDir}, "")
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	requireContains(t, out, "Goodfellas (1990)")
	requireContains(t, out, "tt0099685")
	requireContains(t, out, "completed")
	requireContains(t, out, "title00.mkv")
	requireContains(t, out, "1.1 GB")
	requireContains(t, out, "h264 1920x1080")
	requireContains(t, out, "finalize")
}

func TestShowEpisodeLabels(t *testing.T) {
	diskDir := t.TempDir()

	record := pipeline.NewRecord(diskDir, "run-0002")
	record.ContentType = search.ContentTV
	resolved := search.Candidate{
		ExternalID: "tt0903747",
		Title:      "Breaking Bad",
		Kind:       catalog.KindSeries,
		Season:     2,
		Episode:    3,
		Score:      85,
	}
	record.Videos = []pipeline.VideoRecord{
		{Identifier: "title01", Path: filepath.Join(diskDir, "title01.mkv"), DurationSeconds: 2700, Resolved: &resolved},
	}
	record.Status.Terminal = pipeline.TerminalCompleted
	if err := record.Save(); err != nil {
		t.Fatalf("save record: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", diskDir}, "")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Breaking Bad S02E03")
}

func TestShowMissingRecord(t *testing.T) {
	_, _, err := runCLI(t, []string{"show", t.TempDir()}, "")
	if err == nil || !strings.Contains(err.Error(), "no identification record") {
		t.Fatalf("expected missing-record error, got %v", err)
	}
}
