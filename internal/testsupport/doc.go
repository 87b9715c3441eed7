// Package testsupport provides fixtures shared by package tests: temp-rooted
// configs, filler files, and shell-script stand-ins for ffmpeg, ffprobe, and
// yt-dlp.
package testsupport
