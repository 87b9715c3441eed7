package audio

import (
	"context"

	"github.com/Diogo1457/happy-audio/internal/dsp"
)

// Processor provides the four steps of the pipeline.
type Processor interface {
	Load(ctx context.Context, path string) (dsp.Buffer, error)
	TimeStretch(ctx context.Context, buf dsp.Buffer, rate float64) (dsp.Buffer, error)
	PitchShift(ctx context.Context, buf dsp.Buffer, semitones float64) (dsp.Buffer, error)
	Save(ctx context.Context, path string, buf dsp.Buffer) error
}

// Codec decodes any container with an audio stream into PCM and encodes PCM
// into the format implied by the destination extension.
type Codec interface {
	DecodePCM(ctx context.Context, path string) (dsp.Buffer, error)
	EncodePCM(ctx context.Context, path string, buf dsp.Buffer) error
}

// Engine implements Processor with a Codec for I/O and package dsp for the
// transforms.
type Engine struct {
	codec Codec
}

// NewEngine constructs an Engine around codec.
func NewEngine(codec Codec) *Engine {
	return &Engine{codec: codec}
}

func (e *Engine) Load(ctx context.Context, path string) (dsp.Buffer, error) {
	return e.codec.DecodePCM(ctx, path)
}

func (e *Engine) TimeStretch(ctx context.Context, buf dsp.Buffer, rate float64) (dsp.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return dsp.Buffer{}, err
	}
	return dsp.TimeStretch(buf, rate)
}

func (e *Engine) PitchShift(ctx context.Context, buf dsp.Buffer, semitones float64) (dsp.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return dsp.Buffer{}, err
	}
	return dsp.PitchShift(buf, semitones)
}

func (e *Engine) Save(ctx context.Context, path string, buf dsp.Buffer) error {
	return e.codec.EncodePCM(ctx, path, buf)
}
