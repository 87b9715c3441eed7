package dsp

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultFrame = 2048
	minFrame     = 64
	coarseStep   = 4
	corrStride   = 4
)

// ErrInvalidFactor reports a non-positive or non-finite rate or pitch factor.
var ErrInvalidFactor = errors.New("factor must be a positive finite number")

// TimeStretch changes duration by 1/rate while keeping pitch: rate 2 halves
// the length, rate 0.5 doubles it. Rate 1 returns an exact copy.
func TimeStretch(buf Buffer, rate float64) (Buffer, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return Buffer{}, fmt.Errorf("time stretch rate %v: %w", rate, ErrInvalidFactor)
	}
	if err := buf.Validate(); err != nil {
		return Buffer{}, fmt.Errorf("time stretch: %w", err)
	}
	n := buf.Len()
	if rate == 1 || n == 0 {
		return buf.Clone(), nil
	}

	outLen := int(math.Round(float64(n) / rate))
	out := Buffer{SampleRate: buf.SampleRate, Channels: make([][]float32, len(buf.Channels))}
	if outLen == 0 {
		for c := range out.Channels {
			out.Channels[c] = []float32{}
		}
		return out, nil
	}

	frame := defaultFrame
	for frame > minFrame && frame > n {
		frame /= 2
	}
	hop := frame / 2
	positions := framePositions(buf.Mono(), outLen, frame, hop, frame/8, rate)
	window := hann(frame)

	acc := make([][]float64, len(buf.Channels))
	for c := range acc {
		acc[c] = make([]float64, outLen)
	}
	weight := make([]float64, outLen)
	for k, pos := range positions {
		start := k*hop - hop
		for i := 0; i < frame; i++ {
			o := start + i
			if o < 0 {
				continue
			}
			if o >= outLen {
				break
			}
			w := window[i]
			weight[o] += w
			for c, ch := range buf.Channels {
				acc[c][o] += w * float64(sampleAt(ch, pos+i))
			}
		}
	}
	for c := range out.Channels {
		dst := make([]float32, outLen)
		for o := range dst {
			if weight[o] > 1e-6 {
				dst[o] = float32(acc[c][o] / weight[o])
			}
		}
		out.Channels[c] = dst
	}
	return out, nil
}

// framePositions picks the analysis start of every frame. Frame k is written
// at output offset k*hop-hop so the first output sample is covered twice.
func framePositions(mono []float32, outLen, frame, hop, radius int, rate float64) []int {
	count := (outLen+hop-1)/hop + 1
	positions := make([]int, count)
	positions[0] = -hop
	for k := 1; k < count; k++ {
		nominal := int(math.Round(float64(k*hop-hop) * rate))
		template := positions[k-1] + hop
		positions[k] = bestMatch(mono, template, nominal, radius, frame)
	}
	return positions
}

// bestMatch searches nominal±radius, coarse then fine, for the offset most
// similar to the natural continuation at template. Ties keep nominal.
func bestMatch(x []float32, template, nominal, radius, length int) int {
	best := nominal
	bestScore := similarity(x, template, nominal, length)
	try := func(p int) {
		if p < 0 || p == best {
			return
		}
		if score := similarity(x, template, p, length); score > bestScore {
			best, bestScore = p, score
		}
	}
	for d := -radius; d <= radius; d += coarseStep {
		try(nominal + d)
	}
	center := best
	for d := -coarseStep + 1; d < coarseStep; d++ {
		try(center + d)
	}
	return best
}

// similarity is the normalized cross-correlation of two windows of x,
// sampled every corrStride samples.
func similarity(x []float32, a, b, length int) float64 {
	var dot, ea, eb float64
	for i := 0; i < length; i += corrStride {
		va := float64(sampleAt(x, a+i))
		vb := float64(sampleAt(x, b+i))
		dot += va * vb
		ea += va * va
		eb += vb * vb
	}
	if ea == 0 || eb == 0 {
		return 0
	}
	return dot / math.Sqrt(ea*eb)
}

func sampleAt(x []float32, i int) float32 {
	if i < 0 || i >= len(x) {
		return 0
	}
	return x[i]
}

// hann returns a periodic Hann window, which sums to one at 50% overlap.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
