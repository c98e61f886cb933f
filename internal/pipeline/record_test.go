package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"platter/internal/search"
)

func TestStatusMarkCompleted(t *testing.T) {
	var status Status
	status.MarkCompleted(StepAnalyze)
	status.MarkCompleted(StepScan)
	status.MarkCompleted(StepScan)

	if len(status.CompletedSteps) != 2 {
		t.Fatalf("expected 2 completed steps, got %v", status.CompletedSteps)
	}
	if status.CompletedSteps[0] != StepScan || status.CompletedSteps[1] != StepAnalyze {
		t.Fatalf("completed steps not sorted: %v", status.CompletedSteps)
	}
	if !status.Completed(StepScan) || status.Completed(StepSubtitles) {
		t.Fatal("Completed lookup wrong")
	}
}

func TestStatusTerminal(t *testing.T) {
	status := Status{Terminal: TerminalNone}
	if status.IsTerminal() {
		t.Fatal("none must not be terminal")
	}
	status.Terminal = TerminalUnknown
	if !status.IsTerminal() {
		t.Fatal("unknown is terminal")
	}
	status.Terminal = TerminalCompleted
	if !status.IsTerminal() {
		t.Fatal("completed is terminal")
	}
}

func TestStepNames(t *testing.T) {
	if StepName(StepScan) != "scan" || StepName(StepFinalize) != "finalize" {
		t.Fatal("unexpected step names")
	}
	if StepName(0) != "" || StepName(10) != "" {
		t.Fatal("out-of-range steps must have no name")
	}
}

func TestRecordSaveLoadRoundtrip(t *testing.T) {
	diskDir := filepath.Join(t.TempDir(), "GOODFELLAS (1990)")
	if err := os.MkdirAll(diskDir, 0o755); err != nil {
		t.Fatal(err)
	}

	record := NewRecord(diskDir, "run-1")
	record.Videos = append(record.Videos, VideoRecord{Identifier: "title_00", DurationSeconds: 8700})
	record.BestMatch = &search.Candidate{ExternalID: "tt0099685", Title: "Goodfellas", Year: 1990, Score: 110}
	record.Status.MarkCompleted(StepScan)
	record.Status.Terminal = TerminalCompleted
	if err := record.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadRecord(diskDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a record")
	}
	if loaded.Name != "GOODFELLAS (1990)" || loaded.Parsed.Title != "Goodfellas" || loaded.Parsed.Year != 1990 {
		t.Fatalf("unexpected parsed record: %+v", loaded.Parsed)
	}
	if loaded.BestMatch == nil || loaded.BestMatch.ExternalID != "tt0099685" {
		t.Fatalf("best match not preserved: %+v", loaded.BestMatch)
	}
	if !loaded.Status.Completed(StepScan) || loaded.Status.Terminal != TerminalCompleted {
		t.Fatalf("status not preserved: %+v", loaded.Status)
	}
}

func TestLoadRecordMissing(t *testing.T) {
	record, err := LoadRecord(t.TempDir())
	if err != nil {
		t.Fatalf("missing record should not error: %v", err)
	}
	if record != nil {
		t.Fatal("missing record should return nil")
	}
}

func TestRecordSaveReplacesAtomically(t *testing.T) {
	diskDir := t.TempDir()
	record := NewRecord(diskDir, "run-1")
	if err := record.Save(); err != nil {
		t.Fatal(err)
	}
	record.Status.MarkCompleted(StepScan)
	if err := record.Save(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(diskDir, recordDirName))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() != recordFileName && entry.Name() != lockFileName {
			t.Fatalf("unexpected leftover file %s", entry.Name())
		}
	}

	loaded, err := LoadRecord(diskDir)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Status.Completed(StepScan) {
		t.Fatal("second save not visible")
	}
}

func TestAcquireLockExclusive(t *testing.T) {
	diskDir := t.TempDir()
	lock, err := AcquireLock(diskDir)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer lock.Unlock()

	if _, err := AcquireLock(diskDir); err == nil {
		t.Fatal("second invocation must not acquire the lock")
	}
}
