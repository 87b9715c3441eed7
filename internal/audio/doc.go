// Package audio runs the tempo and pitch transformation over one audio file.
//
// Pipeline.Process executes load, time-stretch, pitch-shift, and save in
// order. Each step fails with its own marker (services.ErrInvalidAudioInput,
// ErrAudioTimeStretch, ErrAudioPitchShift, ErrAudioSave) and nothing is
// retried. The result is encoded to a temp file beside the destination and
// renamed into place, so a failed run never leaves a partial output behind.
//
// Engine is the default Processor: a Codec decodes and encodes PCM (ffmpeg in
// production) and package dsp does the transforms.
package audio
