package ytdlp

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Diogo1457/happy-audio/internal/services"
)

// parseProgress reads "<tag> <downloaded> <total> <estimate>"; yt-dlp prints
// NA for unknown values.
func parseProgress(line string) (services.Progress, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return services.Progress{}, false
	}
	downloaded, ok := parseBytes(fields[1])
	if !ok {
		return services.Progress{}, false
	}
	total, ok := parseBytes(fields[2])
	if !ok || total == 0 {
		total, ok = parseBytes(fields[3])
	}
	update := services.Progress{Stage: "Downloading", Percent: -1}
	if ok && total > 0 {
		update.Percent = math.Min(100, float64(downloaded)/float64(total)*100)
		update.Message = humanize.Bytes(downloaded) + " / " + humanize.Bytes(total)
	} else {
		update.Message = humanize.Bytes(downloaded)
	}
	return update, true
}

func parseBytes(value string) (uint64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed < 0 || math.IsNaN(parsed) {
		return 0, false
	}
	return uint64(parsed), true
}

// parseInfo reads "<tag> <duration>|<uploader>|<title>"; titles may contain '|'.
func parseInfo(line string, dst *Download) {
	_, payload, _ := strings.Cut(line, " ")
	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return
	}
	if seconds, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil && seconds > 0 {
		dst.Duration = time.Duration(seconds * float64(time.Second))
	}
	if uploader := strings.TrimSpace(parts[1]); uploader != "NA" {
		dst.Uploader = uploader
	}
	if title := strings.TrimSpace(parts[2]); title != "NA" {
		dst.Title = title
	}
}
