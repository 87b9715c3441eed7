// Package ytdlp downloads remote media with the yt-dlp CLI.
//
// Audio requests fetch the best audio format and extract it to mp3; video
// requests merge the best video and audio formats into mp4. Output is written
// as <dest>/<id>.<ext>. Progress is read from a custom progress template on
// stdout and forwarded to a services.ProgressFunc; the final file path and
// basic metadata come from --print lines. Every failure is tagged with
// services.ErrFetchFailed and never retried.
package ytdlp
