package ocr

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteEngine posts the image to an HTTP recognition service that answers
// {"text": "...", "confidence": 0.93}. Confidence given as a percentage is
// scaled down to [0,1].
type RemoteEngine struct {
	client *resty.Client
}

func NewRemoteEngine(baseURL string, timeout time.Duration) *RemoteEngine {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RemoteEngine{client: client}
}

func (e *RemoteEngine) Name() string { return "remote" }

type remoteResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (e *RemoteEngine) Recognize(ctx context.Context, image []byte) (Result, error) {
	var body remoteResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetFileReader("file", "document.png", bytes.NewReader(image)).
		SetResult(&body).
		Post("/recognize")
	if err != nil {
		return Result{}, fmt.Errorf("call recognition service: %w", err)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("recognition service returned %d: %s", resp.StatusCode(), resp.String())
	}

	conf := body.Confidence
	if conf > 1 {
		conf /= 100
	}
	return Result{Text: body.Text, Confidence: conf, Engine: e.Name()}, nil
}
