package main

import (
	"io"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Diogo1457/happy-audio/internal/services"
)

// progressRenderer draws pipeline progress as a single bar whose description
// follows the current step. Off a terminal it draws nothing.
type progressRenderer struct {
	bar   *progressbar.ProgressBar
	stage string
}

func newProgressRenderer(w io.Writer) *progressRenderer {
	if !shouldColorize(w) {
		return &progressRenderer{}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &progressRenderer{bar: bar}
}

// Update is a services.ProgressFunc.
func (r *progressRenderer) Update(p services.Progress) {
	if r.bar == nil {
		return
	}
	if p.Stage != "" && p.Stage != r.stage {
		r.stage = p.Stage
		r.bar.Describe(describe(p))
	} else if p.Message != "" {
		r.bar.Describe(describe(p))
	}
	if p.Percent >= 0 {
		_ = r.bar.Set(int(math.Min(p.Percent, 100)))
	}
}

// Close clears the bar from the terminal.
func (r *progressRenderer) Close() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}

func describe(p services.Progress) string {
	if p.Message == "" {
		return p.Stage
	}
	return p.Stage + " (" + p.Message + ")"
}
