// Package tesseract is the local OCR engine backed by libtesseract.
package tesseract

import (
	"context"
	"fmt"

	"fleetops/ocr"

	"github.com/otiai10/gosseract/v2"
)

type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

func New(languages ...string) *Engine {
	return &Engine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

type outcome struct {
	res ocr.Result
	err error
}

// Recognize runs tesseract on its own client. libtesseract cannot be
// interrupted, so on cancellation the caller gets ctx.Err() right away and the
// worker finishes and closes its client in the background.
func (e *Engine) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	done := make(chan outcome, 1)
	go func() {
		c := e.clientFactory()
		defer c.Close()
		res, err := e.recognizeWithClient(c, image)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	case o := <-done:
		return o.res, o.err
	}
}

func (e *Engine) recognizeWithClient(c *gosseract.Client, image []byte) (ocr.Result, error) {
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.Result{Text: text, Confidence: wordConfidence(c), Engine: e.Name()}, nil
}

// wordConfidence averages tesseract's per-word confidence (0-100) into [0,1].
func wordConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
