package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Diogo1457/happy-audio/internal/dsp"
)

// DecodePCM decodes the first audio stream of any container into float PCM at
// the stream's native rate and channel count, so an mp4 decodes as readily as
// an mp3.
func (c *Client) DecodePCM(ctx context.Context, path string) (dsp.Buffer, error) {
	probe, err := c.Probe(ctx, path)
	if err != nil {
		return dsp.Buffer{}, err
	}
	stream, ok := probe.FirstAudioStream()
	if !ok {
		return dsp.Buffer{}, fmt.Errorf("no audio stream in %s", filepath.Base(path))
	}
	rate := stream.SampleRateHz()
	if rate <= 0 {
		rate = 44100
	}
	channels := stream.Channels
	if channels <= 0 {
		channels = 2
	}

	args := []string{
		"-v", "error", "-nostdin",
		"-i", path,
		"-map", "0:a:0", "-vn",
		"-f", "f32le", "-acodec", "pcm_f32le",
		"-ac", strconv.Itoa(channels), "-ar", strconv.Itoa(rate),
		"pipe:1",
	}
	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, c.ffmpeg, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return dsp.Buffer{}, fmt.Errorf("ffmpeg decode: %w: %s", err, stderrTail(stderr.String()))
	}
	if stdout.Len() == 0 {
		return dsp.Buffer{}, errors.New("ffmpeg decode produced no samples")
	}
	return dsp.Deinterleave(bytesToFloats(stdout.Bytes()), channels, rate), nil
}

// EncodePCM writes buf to path, choosing the codec from the extension.
func (c *Client) EncodePCM(ctx context.Context, path string, buf dsp.Buffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	args := []string{
		"-v", "error", "-y",
		"-f", "f32le",
		"-ar", strconv.Itoa(buf.SampleRate),
		"-ac", strconv.Itoa(buf.NumChannels()),
		"-i", "pipe:0",
	}
	args = append(args, audioCodecArgs(filepath.Ext(path))...)
	args = append(args, path)

	var stderr bytes.Buffer
	cmd := commandContext(ctx, c.ffmpeg, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(floatsToBytes(buf.Interleave()))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, stderrTail(stderr.String()))
	}
	return nil
}

func audioCodecArgs(ext string) []string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return []string{"-c:a", "libmp3lame", "-b:a", "192k"}
	case ".wav":
		return []string{"-c:a", "pcm_s16le"}
	case ".flac":
		return []string{"-c:a", "flac"}
	case ".m4a", ".aac":
		return []string{"-c:a", "aac", "-b:a", "192k"}
	case ".ogg":
		return []string{"-c:a", "libvorbis", "-q:a", "5"}
	case ".opus":
		return []string{"-c:a", "libopus", "-b:a", "160k"}
	default:
		return nil
	}
}

func bytesToFloats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func floatsToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
