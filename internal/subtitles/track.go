package subtitles

import (
	"os"
	"path/filepath"
	"strings"

	"platter/internal/language"
)

// Track is a parsed subtitle sidecar associated with one video file.
type Track struct {
	Path     string
	Language string // ISO 639-1, empty when the sidecar name carries no language token
	Cues     []Cue
}

// Dialogue returns the non-empty cue texts in playback order.
func (t *Track) Dialogue() []string {
	lines := make([]string, 0, len(t.Cues))
	for _, cue := range t.Cues {
		if cue.Text != "" {
			lines = append(lines, cue.Text)
		}
	}
	return lines
}

// LoadForVideo locates and parses subtitle sidecars for the given video file.
//
// Sidecars follow the <stem>.srt and <stem>.<lang>.srt conventions, where
// <lang> is any recognized language code or word. Forced-subtitle sidecars
// are skipped: they carry only foreign-dialogue cues and would distort gap
// analysis. Sidecars that fail to parse are skipped rather than failing the
// whole video.
func LoadForVideo(videoPath string) ([]Track, error) {
	dir := filepath.Dir(videoPath)
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".srt") {
			continue
		}
		lang, ok := sidecarLanguage(name, stem)
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cues, err := ParseSRT(string(content))
		if err != nil {
			continue
		}
		tracks = append(tracks, Track{Path: path, Language: lang, Cues: cues})
	}
	return tracks, nil
}

// sidecarLanguage matches a sidecar file name against a video stem and
// returns the normalized language token. The boolean is false when the name
// does not belong to the stem or the sidecar is a forced track.
func sidecarLanguage(name, stem string) (string, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == stem {
		return "", true
	}
	rest, found := strings.CutPrefix(base, stem+".")
	if !found {
		return "", false
	}

	lang := ""
	for _, token := range strings.Split(rest, ".") {
		lowered := strings.ToLower(token)
		if lowered == "forced" {
			return "", false
		}
		if mapped := language.ToISO2(lowered); mapped != "" && lang == "" {
			lang = mapped
		}
	}
	return lang, true
}

// PickDialogueTrack selects the track to analyze: English when present,
// otherwise an unlabeled sidecar, otherwise the first available. Returns nil
// when no tracks exist.
func PickDialogueTrack(tracks []Track) *Track {
	for i := range tracks {
		if tracks[i].Language == "en" {
			return &tracks[i]
		}
	}
	for i := range tracks {
		if tracks[i].Language == "" {
			return &tracks[i]
		}
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}
