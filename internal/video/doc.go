// Package video speeds up a video and replaces its soundtrack with the
// tempo- and pitch-shifted original.
//
// Pipeline.Process validates the output extension before touching the input,
// probes the input for a video stream, extracts the soundtrack to a temp WAV,
// runs the audio pipeline into a second temp WAV, and exports one file whose
// picture is re-timed by the same speed. Both temp files are removed on every
// exit path. Each step fails with its own marker; audio failures are wrapped
// in services.ErrVideoAudioProcessing so the inner step stays visible.
package video
