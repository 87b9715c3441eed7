package accelerate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Diogo1457/happy-audio/internal/acquire"
	"github.com/Diogo1457/happy-audio/internal/dsp"
	"github.com/Diogo1457/happy-audio/internal/media"
)

// Request describes one invocation. Exactly one of Path and URL is set.
type Request struct {
	Path       string     `validate:"required_without=URL,excluded_with=URL"`
	URL        string     `validate:"required_without=Path,excluded_with=Path"`
	Kind       media.Kind `validate:"oneof=0 1"`
	Speed      float64    `validate:"gt=0"`
	PitchShift float64    `validate:"gte=-48,lte=48"`
	Output     string
	UseCache   bool
}

// Source returns the acquisition source for r.
func (r Request) Source() acquire.Source {
	return acquire.Source{Path: strings.TrimSpace(r.Path), URL: strings.TrimSpace(r.URL)}
}

// Result is what a successful run produced.
type Result struct {
	OutputPath string         `json:"output_path"`
	Kind       media.Kind     `json:"kind"`
	RunID      string         `json:"run_id"`
	Acquired   acquire.Result `json:"-"`
}

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req Request) error {
	req.Path = strings.TrimSpace(req.Path)
	req.URL = strings.TrimSpace(req.URL)
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg := describe(fe); !slices.Contains(msgs, msg) {
			msgs = append(msgs, msg)
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "Path", "URL":
		if fe.Tag() == "excluded_with" {
			return "a local path and a remote URL are mutually exclusive"
		}
		return "a local path or a remote URL is required"
	case "Speed":
		return "speed must be greater than 0"
	case "PitchShift":
		return fmt.Sprintf("pitch shift must be within ±%d semitones", int(dsp.MaxSemitones))
	case "Kind":
		return "kind must be audio or video"
	default:
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
}
