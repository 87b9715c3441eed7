package ffprobe

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "mjpeg"},
			{CodecType: "video", CodecName: "h264", AvgFrameRate: "30000/1001"},
			{CodecType: "audio", SampleRate: "48000", Channels: 2},
			{CodecType: "audio", SampleRate: "44100", Channels: 1},
		},
		Format: Format{Duration: "123.45", Size: "1000"},
	}
	video, ok := result.FirstVideoStream()
	if !ok || video.CodecName != "h264" {
		t.Fatalf("expected h264 video stream, got %+v (ok=%v)", video, ok)
	}
	if got := video.FrameRate(); math.Abs(got-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
	audio, ok := result.FirstAudioStream()
	if !ok || audio.SampleRateHz() != 48000 || audio.Channels != 2 {
		t.Fatalf("unexpected first audio stream: %+v", audio)
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestCoverArtIsNotVideo(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", CodecName: "png"}, {CodecType: "audio"}}}
	if result.HasVideo() {
		t.Fatal("expected attached picture to be ignored")
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{Streams: []Stream{{Duration: "3.5"}, {Duration: "4.25"}}}
	if result.DurationSeconds() != 4.25 {
		t.Fatalf("expected longest stream duration, got %v", result.DurationSeconds())
	}
}

func TestFrameRateDegenerate(t *testing.T) {
	for _, value := range []string{"", "0/0", "25/0", "abc"} {
		if got := (Stream{AvgFrameRate: value}).FrameRate(); got != 0 {
			t.Fatalf("FrameRate(%q) = %v, want 0", value, got)
		}
	}
	if got := (Stream{AvgFrameRate: "25"}).FrameRate(); got != 25 {
		t.Fatalf("expected plain rate 25, got %v", got)
	}
}

func TestInspectParsesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"index\":0,\"codec_type\":\"audio\",\"sample_rate\":\"22050\",\"channels\":1}],\"format\":{\"duration\":\"2.0\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "input.mp3")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	stream, ok := result.FirstAudioStream()
	if !ok || stream.SampleRateHz() != 22050 {
		t.Fatalf("unexpected stream: %+v", stream)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	original := commandContext
	t.Cleanup(func() { commandContext = original })
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'Invalid data found' >&2; exit 1")
	}

	if _, err := Inspect(context.Background(), "ffprobe", "broken.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
