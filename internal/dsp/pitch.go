package dsp

import (
	"fmt"
	"math"
)

// MaxSemitones bounds PitchShift to four octaves either way.
const MaxSemitones = 48

// PitchShift moves pitch by semitones without changing duration. Zero
// semitones returns an exact copy.
func PitchShift(buf Buffer, semitones float64) (Buffer, error) {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) || math.Abs(semitones) > MaxSemitones {
		return Buffer{}, fmt.Errorf("pitch shift of %v semitones: %w", semitones, ErrInvalidFactor)
	}
	if err := buf.Validate(); err != nil {
		return Buffer{}, fmt.Errorf("pitch shift: %w", err)
	}
	if semitones == 0 || buf.Len() == 0 {
		return buf.Clone(), nil
	}
	factor := math.Pow(2, semitones/12)
	stretched, err := TimeStretch(buf, 1/factor)
	if err != nil {
		return Buffer{}, fmt.Errorf("pitch shift: %w", err)
	}
	return Resample(stretched, buf.Len()), nil
}

// Resample linearly interpolates every channel to exactly length samples.
// The sample rate is kept, so shrinking raises pitch.
func Resample(buf Buffer, length int) Buffer {
	out := Buffer{SampleRate: buf.SampleRate, Channels: make([][]float32, len(buf.Channels))}
	for c, src := range buf.Channels {
		dst := make([]float32, length)
		if len(src) == 0 || length == 0 {
			out.Channels[c] = dst
			continue
		}
		ratio := float64(len(src)) / float64(length)
		last := len(src) - 1
		for i := range dst {
			pos := float64(i) * ratio
			i0 := int(pos)
			if i0 >= last {
				dst[i] = src[last]
				continue
			}
			frac := float32(pos - float64(i0))
			dst[i] = src[i0]*(1-frac) + src[i0+1]*frac
		}
		out.Channels[c] = dst
	}
	return out
}
