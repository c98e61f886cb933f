package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080},
			{CodecType: "audio", Channels: 6},
			{CodecType: "subtitle", Tags: map[string]string{"language": "eng"}},
			{CodecType: "subtitle", Tags: map[string]string{"language": "fre"}},
			{CodecType: "subtitle", Tags: map[string]string{"title": "untagged"}},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}

	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.VideoCodec() != "h264" {
		t.Fatalf("unexpected codec: %q", result.VideoCodec())
	}
	if w, h := result.Resolution(); w != 1920 || h != 1080 {
		t.Fatalf("unexpected resolution: %dx%d", w, h)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}

	langs := result.SubtitleLanguages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "fr" {
		t.Fatalf("unexpected subtitle languages: %v", langs)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Duration: "3000.5"},
			{CodecType: "audio", Duration: "2999.8"},
		},
	}
	if result.DurationSeconds() != 3000.5 {
		t.Fatalf("expected stream fallback duration 3000.5, got %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}
