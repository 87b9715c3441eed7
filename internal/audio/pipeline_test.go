package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Diogo1457/happy-audio/internal/audio"
	"github.com/Diogo1457/happy-audio/internal/dsp"
	"github.com/Diogo1457/happy-audio/internal/services"
	"github.com/Diogo1457/happy-audio/internal/testsupport"
)

// memCodec decodes every file as a short ramp and writes the sample count.
type memCodec struct {
	decodeErr error
	encodeErr error
	encoded   []string
}

func (m *memCodec) DecodePCM(_ context.Context, _ string) (dsp.Buffer, error) {
	if m.decodeErr != nil {
		return dsp.Buffer{}, m.decodeErr
	}
	ch := make([]float32, 4410)
	for i := range ch {
		ch[i] = float32(i%100) / 100
	}
	return dsp.Buffer{SampleRate: 44100, Channels: [][]float32{ch, append([]float32(nil), ch...)}}, nil
}

func (m *memCodec) EncodePCM(_ context.Context, path string, buf dsp.Buffer) error {
	m.encoded = append(m.encoded, path)
	if m.encodeErr != nil {
		// Simulate an encoder that dies after creating its output.
		_ = os.WriteFile(path, []byte("partial"), 0o644)
		return m.encodeErr
	}
	return os.WriteFile(path, []byte(strings.Repeat("x", buf.Len()%97+1)), 0o644)
}

// failingProcessor wraps an Engine and fails one named step.
type failingProcessor struct {
	*audio.Engine
	failStretch bool
	failShift   bool
}

func (f failingProcessor) TimeStretch(ctx context.Context, buf dsp.Buffer, rate float64) (dsp.Buffer, error) {
	if f.failStretch {
		return dsp.Buffer{}, errors.New("stretch exploded")
	}
	return f.Engine.TimeStretch(ctx, buf, rate)
}

func (f failingProcessor) PitchShift(ctx context.Context, buf dsp.Buffer, semitones float64) (dsp.Buffer, error) {
	if f.failShift {
		return dsp.Buffer{}, errors.New("shift exploded")
	}
	return f.Engine.PitchShift(ctx, buf, semitones)
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp3")
	testsupport.WriteFile(t, input, 64)
	return input, filepath.Join(dir, "out", "song_happy.mp3")
}

func assertNoOutput(t *testing.T, output string) {
	t.Helper()
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output at %s, stat err=%v", output, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(output))
	for _, e := range entries {
		t.Fatalf("unexpected leftover file %s", e.Name())
	}
}

func TestProcessSuccess(t *testing.T) {
	input, output := setup(t)
	codec := &memCodec{}
	pipeline := audio.NewPipeline(audio.NewEngine(codec), nil)

	var stages []string
	got, err := pipeline.Process(context.Background(), input, output, 1.25, 2, func(p services.Progress) {
		stages = append(stages, p.Stage)
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got != output {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if len(codec.encoded) != 1 || codec.encoded[0] == output || filepath.Ext(codec.encoded[0]) != ".mp3" {
		t.Fatalf("expected encode into an .mp3 temp sibling, got %v", codec.encoded)
	}
	want := []string{audio.StepLoad, audio.StepStretch, audio.StepShift, audio.StepSave, audio.StepDone}
	if strings.Join(stages, "|") != strings.Join(want, "|") {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
}

func TestProcessMissingInput(t *testing.T) {
	_, output := setup(t)
	pipeline := audio.NewPipeline(audio.NewEngine(&memCodec{}), nil)
	_, err := pipeline.Process(context.Background(), "/nope/missing.mp3", output, 1.25, 2, nil)
	if !errors.Is(err, services.ErrInvalidAudioInput) {
		t.Fatalf("expected ErrInvalidAudioInput, got %v", err)
	}
}

func TestProcessUndecodableInput(t *testing.T) {
	input, output := setup(t)
	pipeline := audio.NewPipeline(audio.NewEngine(&memCodec{decodeErr: errors.New("invalid data")}), nil)
	_, err := pipeline.Process(context.Background(), input, output, 1.25, 2, nil)
	if services.KindOf(err) != "InvalidAudioInput" {
		t.Fatalf("expected InvalidAudioInput kind, got %v", err)
	}
}

func TestStretchFailureIsTagged(t *testing.T) {
	input, output := setup(t)
	proc := failingProcessor{Engine: audio.NewEngine(&memCodec{}), failStretch: true}
	_, err := audio.NewPipeline(proc, nil).Process(context.Background(), input, output, 1.25, 2, nil)
	if services.KindOf(err) != "AudioTimeStretch" {
		t.Fatalf("expected AudioTimeStretch kind, got %v", err)
	}
}

func TestPitchShiftFailureLeavesNoOutput(t *testing.T) {
	input, output := setup(t)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	codec := &memCodec{}
	proc := failingProcessor{Engine: audio.NewEngine(codec), failShift: true}

	_, err := audio.NewPipeline(proc, nil).Process(context.Background(), input, output, 1.25, 2, nil)
	if !errors.Is(err, services.ErrAudioPitchShift) {
		t.Fatalf("expected ErrAudioPitchShift, got %v", err)
	}
	for _, other := range []error{services.ErrInvalidAudioInput, services.ErrAudioTimeStretch, services.ErrAudioSave} {
		if errors.Is(err, other) {
			t.Fatalf("pitch shift failure must not match %v", other)
		}
	}
	if !strings.Contains(err.Error(), "shift exploded") {
		t.Fatalf("expected cause in message, got %v", err)
	}
	if len(codec.encoded) != 0 {
		t.Fatal("save must not run after a failed pitch shift")
	}
	assertNoOutput(t, output)
}

func TestSaveFailureCleansTemp(t *testing.T) {
	input, output := setup(t)
	codec := &memCodec{encodeErr: errors.New("encoder crashed")}
	_, err := audio.NewPipeline(audio.NewEngine(codec), nil).Process(context.Background(), input, output, 1.25, 2, nil)
	if !errors.Is(err, services.ErrAudioSave) {
		t.Fatalf("expected ErrAudioSave, got %v", err)
	}
	assertNoOutput(t, output)
}

func TestInvalidSpeedFailsStretch(t *testing.T) {
	input, output := setup(t)
	_, err := audio.NewPipeline(audio.NewEngine(&memCodec{}), nil).Process(context.Background(), input, output, 0, 2, nil)
	if !errors.Is(err, services.ErrAudioTimeStretch) || !errors.Is(err, dsp.ErrInvalidFactor) {
		t.Fatalf("expected stretch failure wrapping ErrInvalidFactor, got %v", err)
	}
}

func TestCancelledContextStopsBeforeStretch(t *testing.T) {
	input, output := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := audio.NewPipeline(audio.NewEngine(&memCodec{}), nil).Process(ctx, input, output, 1.25, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}
