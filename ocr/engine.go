// Package ocr turns scanned load documents into order drafts: an Engine reads
// the text, ParseOrder pulls the order fields out of it.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// Result is the output of a single recognition. Confidence is in [0,1].
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine"`
}

// Engine recognizes text in an image. Implementations must honour ctx.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (Result, error)
}

const (
	BandSuccess = "success"
	BandWarning = "warning"
	BandDefault = "default"
)

// ConfidenceBand maps a recognition score to the badge shown next to a draft.
func ConfidenceBand(score float64) string {
	switch {
	case score >= 0.85:
		return BandSuccess
	case score < 0.6:
		return BandWarning
	default:
		return BandDefault
	}
}

// Recognize normalizes the upload and runs one recognition on engine, bounded
// by timeout when it is positive. There is no retry.
func Recognize(ctx context.Context, engine Engine, data []byte, timeout time.Duration) (Result, error) {
	img, _, err := NormalizeImage(data)
	if err != nil {
		return Result{}, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := engine.Recognize(ctx, img)
	if err != nil {
		return Result{}, fmt.Errorf("%s recognize: %w", engine.Name(), err)
	}

	res.Text = strings.TrimSpace(res.Text)
	res.Confidence = clamp(res.Confidence)
	if res.Engine == "" {
		res.Engine = engine.Name()
	}
	return res, nil
}

func clamp(score float64) float64 {
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
