package dsp

import (
	"errors"
	"fmt"
	"time"
)

// Buffer holds planar samples, one slice per channel, all of equal length.
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// Len returns the number of frames (samples per channel).
func (b Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// NumChannels returns the channel count.
func (b Buffer) NumChannels() int {
	return len(b.Channels)
}

// Duration returns the playback length at the buffer's sample rate.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Len()) / float64(b.SampleRate) * float64(time.Second))
}

// Validate checks the buffer shape.
func (b Buffer) Validate() error {
	if len(b.Channels) == 0 {
		return errors.New("buffer has no channels")
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.SampleRate)
	}
	n := len(b.Channels[0])
	for i, ch := range b.Channels[1:] {
		if len(ch) != n {
			return fmt.Errorf("channel %d has %d samples, channel 0 has %d", i+1, len(ch), n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	out := Buffer{SampleRate: b.SampleRate, Channels: make([][]float32, len(b.Channels))}
	for i, ch := range b.Channels {
		out.Channels[i] = append([]float32(nil), ch...)
	}
	return out
}

// Mono averages all channels into one.
func (b Buffer) Mono() []float32 {
	n := b.Len()
	if len(b.Channels) == 1 {
		return b.Channels[0]
	}
	mono := make([]float32, n)
	scale := 1 / float32(len(b.Channels))
	for _, ch := range b.Channels {
		for i, v := range ch {
			mono[i] += v * scale
		}
	}
	return mono
}

// Interleave packs the buffer as L R L R ... for encoders.
func (b Buffer) Interleave() []float32 {
	channels := len(b.Channels)
	n := b.Len()
	out := make([]float32, n*channels)
	for c, ch := range b.Channels {
		for i, v := range ch {
			out[i*channels+c] = v
		}
	}
	return out
}

// Deinterleave splits interleaved samples into a planar buffer. A trailing
// partial frame is dropped.
func Deinterleave(samples []float32, channels, sampleRate int) Buffer {
	if channels <= 0 {
		channels = 1
	}
	n := len(samples) / channels
	out := Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for c := range out.Channels {
		out.Channels[c] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < channels; c++ {
			out.Channels[c][i] = samples[i*channels+c]
		}
	}
	return out
}
