package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Diogo1457/happy-audio/internal/media"
)

func TestKindExtensions(t *testing.T) {
	if media.KindAudio.Ext() != "mp3" || media.KindVideo.Ext() != "mp4" {
		t.Fatalf("unexpected extensions: %s %s", media.KindAudio.Ext(), media.KindVideo.Ext())
	}
	for _, tc := range []struct {
		in   string
		want media.Kind
	}{{"audio", media.KindAudio}, {"MP3", media.KindAudio}, {" video ", media.KindVideo}, {"mp4", media.KindVideo}} {
		got, err := media.ParseKind(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseKind(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := media.ParseKind("gif"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestAccepts(t *testing.T) {
	cases := []struct {
		kind media.Kind
		mime string
		want bool
	}{
		{media.KindAudio, "audio/mpeg", true},
		{media.KindAudio, "video/mp4", true},
		{media.KindAudio, "audio/wav; charset=binary", true},
		{media.KindAudio, "text/plain; charset=utf-8", false},
		{media.KindVideo, "video/webm", true},
		{media.KindVideo, "audio/mpeg", false},
		{media.KindVideo, "image/png", false},
	}
	for _, tc := range cases {
		if got := tc.kind.Accepts(tc.mime); got != tc.want {
			t.Fatalf("%s.Accepts(%q) = %v, want %v", tc.kind, tc.mime, got, tc.want)
		}
	}
}

func TestCheckFileRejectsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just some words\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mimeType, err := media.KindAudio.CheckFile(path)
	if err == nil {
		t.Fatalf("expected text file to be rejected, got %s", mimeType)
	}
}

func TestCheckFileAcceptsWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := media.KindAudio.CheckFile(path); err != nil {
		t.Fatalf("expected wav to be accepted: %v", err)
	}
	if _, err := media.KindVideo.CheckFile(path); err == nil {
		t.Fatal("expected wav to be rejected for video")
	}
}

func TestCheckFileMissing(t *testing.T) {
	if _, err := media.KindAudio.CheckFile(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
