// Package dsp implements tempo and pitch transforms on planar float32 sample
// buffers.
//
// TimeStretch uses waveform-similarity overlap-add (WSOLA): Hann-windowed
// frames are laid down at a fixed synthesis hop while the analysis position
// advances by hop*rate, nudged within a small search radius to the offset
// whose waveform best continues the previous frame. The offsets are chosen on
// a mono mix and applied to every channel so stereo images stay aligned.
//
// PitchShift stretches by the inverse pitch factor and resamples back to the
// original length, which moves every frequency by 2^(semitones/12) while the
// duration is unchanged.
package dsp
