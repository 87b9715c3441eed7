// Package acquire turns a request source into a local media file.
//
// Local paths are returned untouched. Remote URLs are validated and resolved
// to an identity, then served from the download cache when possible. An audio
// request with no cached audio but a cached video of the same identity is
// served from the video file, which the audio loader decodes by mapping its
// first audio stream. Misses are fetched and registered in the cache.
package acquire
