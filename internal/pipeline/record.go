package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"platter/internal/dialogue"
	"platter/internal/discname"
	"platter/internal/pattern"
	"platter/internal/search"
)

const (
	recordDirName  = ".platter"
	recordFileName = "record.json"
	lockFileName   = "lock"
)

// SynopsisSkipped marks a video deliberately excluded from summarization
// (play-all copies of episodes that exist individually).
const SynopsisSkipped = "skipped"

// VideoRecord is the per-video slice of the identification record. Created at
// scan time and mutated additively by each step.
type VideoRecord struct {
	Identifier        string             `json:"identifier"`
	Path              string             `json:"path"`
	DurationSeconds   float64            `json:"duration_seconds"`
	SizeBytes         int64              `json:"size_bytes,omitempty"`
	VideoCodec        string             `json:"video_codec,omitempty"`
	Width             int                `json:"width,omitempty"`
	Height            int                `json:"height,omitempty"`
	SubtitleLanguages []string           `json:"subtitle_languages,omitempty"`
	SubtitlePath      string             `json:"subtitle_path,omitempty"`
	GapStats          *dialogue.GapStats `json:"gap_stats,omitempty"`
	SignificantGaps   []dialogue.Gap     `json:"significant_gaps,omitempty"`
	BoundarySeconds   []float64          `json:"boundary_seconds,omitempty"`
	SegmentsSeconds   []float64          `json:"segments_seconds,omitempty"`
	IsPlayAll         bool               `json:"is_play_all,omitempty"`
	ProperNouns       map[string]int     `json:"proper_nouns,omitempty"`
	Characters        []string           `json:"characters,omitempty"`
	Synopsis          string             `json:"synopsis,omitempty"`
	Matches           []search.Candidate `json:"matches,omitempty"`
	Resolved          *search.Candidate  `json:"resolved,omitempty"`
}

// HasDialogue reports whether the subtitle step found usable cues.
func (v *VideoRecord) HasDialogue() bool {
	return v.SubtitlePath != ""
}

// DiskRecord is the persisted identification record for one disk directory.
type DiskRecord struct {
	RunID           string             `json:"run_id"`
	Name            string             `json:"name"`
	Path            string             `json:"path"`
	Parsed          discname.Parsed    `json:"parsed"`
	Pattern         pattern.Kind       `json:"pattern,omitempty"`
	SameLengthCount int                `json:"same_length_count,omitempty"`
	ContentType     search.ContentType `json:"content_type,omitempty"`
	Videos          []VideoRecord      `json:"videos"`
	Candidates      []search.Candidate `json:"candidates,omitempty"`
	BestMatch       *search.Candidate  `json:"best_match,omitempty"`
	Status          Status             `json:"status"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewRecord initializes a fresh record for a disk directory.
func NewRecord(diskDir, runID string) *DiskRecord {
	name := filepath.Base(diskDir)
	return &DiskRecord{
		RunID:  runID,
		Name:   name,
		Path:   diskDir,
		Parsed: discname.Parse(name),
		Status: Status{Terminal: TerminalNone},
	}
}

// RecordPath returns the location of the persisted record for a disk
// directory.
func RecordPath(diskDir string) string {
	return filepath.Join(diskDir, recordDirName, recordFileName)
}

// LoadRecord reads the persisted record. A missing record returns (nil, nil):
// the disk has not been processed yet.
func LoadRecord(diskDir string) (*DiskRecord, error) {
	data, err := os.ReadFile(RecordPath(diskDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	var record DiskRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", RecordPath(diskDir), err)
	}
	return &record, nil
}

// Save writes the record atomically: encode to a temp file in the record
// directory, then rename over the previous version. Readers never observe a
// partial record.
func (r *DiskRecord) Save() error {
	r.UpdatedAt = time.Now().UTC()

	dir := filepath.Join(r.Path, recordDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, recordFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		tmp.Close()
		return fmt.Errorf("encode record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, recordFileName)); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// AcquireLock takes the per-disk advisory lock, enforcing one invocation per
// disk directory. The caller must Unlock the returned lock.
func AcquireLock(diskDir string) (*flock.Flock, error) {
	dir := filepath.Join(diskDir, recordDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire disk lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("disk directory %s is locked by another invocation", diskDir)
	}
	return lock, nil
}
