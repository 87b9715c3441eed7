// Package accelerate turns one MediaRequest into an output file.
//
// Service.Run checks the request, derives and verifies the output location,
// acquires the source through the download cache, then hands the local file
// to the audio or video pipeline. NewFromConfig wires the concrete cache,
// yt-dlp client, ffmpeg client, and pipelines from configuration.
package accelerate
