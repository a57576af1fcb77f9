// Package whisper provides the speech-to-text sidecar client implementing
// domain.Transcriber. It uploads audio as multipart form data to
// POST /transcribe and probes GET /health.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/talentsift/candidate-screener/internal/adapter/observability"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/pkg/textx"
)

// Client talks to the whisper transcription sidecar.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	cfg        config.Config
}

// New constructs a whisper client.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.WhisperURL, "/"),
		language:   cfg.TranscriptionLanguage,
		httpClient: &http.Client{Timeout: cfg.CollaboratorTimeout},
		cfg:        cfg,
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

type transcribeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Result  struct {
		Text       string  `json:"text"`
		Language   string  `json:"language"`
		WordCount  int     `json:"word_count"`
		Duration   float64 `json:"duration"`
		Confidence float64 `json:"confidence"`
	} `json:"result"`
}

// Transcribe uploads the audio file and returns the transcription. 4xx
// responses are permanent failures; 5xx and transport errors retry with
// exponential backoff.
func (c *Client) Transcribe(ctx context.Context, fileName, path string) (domain.Transcription, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return domain.Transcription{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", fileName)
	if err != nil {
		return domain.Transcription{}, err
	}
	if _, err := fw.Write(audio); err != nil {
		return domain.Transcription{}, err
	}
	_ = mw.WriteField("language", c.language)
	_ = mw.WriteField("task", "transcribe")
	_ = mw.WriteField("word_timestamps", "true")
	if err := mw.Close(); err != nil {
		return domain.Transcription{}, err
	}

	var out transcribeResponse
	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", bytes.NewReader(body.Bytes()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			observability.ObserveCollaborator("whisper", "transcribe", "error", time.Since(start))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ObserveCollaborator("whisper", "transcribe", "client_error", time.Since(start))
			return backoff.Permanent(fmt.Errorf("whisper status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ObserveCollaborator("whisper", "transcribe", "server_error", time.Since(start))
			return fmt.Errorf("whisper status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return backoff.Permanent(err)
		}
		if !out.Success {
			observability.ObserveCollaborator("whisper", "transcribe", "failure", time.Since(start))
			return backoff.Permanent(fmt.Errorf("whisper: %s", out.Error))
		}
		observability.ObserveCollaborator("whisper", "transcribe", "success", time.Since(start))
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		return domain.Transcription{}, fmt.Errorf("%w: whisper transcribe: %v", domain.ErrUnavailable, err)
	}

	return domain.Transcription{
		Text:            textx.SanitizeText(out.Result.Text),
		Language:        out.Result.Language,
		Confidence:      out.Result.Confidence,
		DurationSeconds: out.Result.Duration,
		WordCount:       out.Result.WordCount,
	}, nil
}

// Healthy probes the sidecar's health endpoint with a single request.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: whisper: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: whisper status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return nil
}
