// Package tika provides Apache Tika integration for CV text extraction.
//
// It extracts text content from various document formats including PDF, Word
// and plain text files, and exposes an explicit health probe so the caller
// can select an extraction strategy at startup.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/talentsift/candidate-screener/internal/adapter/observability"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.Config
}

// New constructs a Tika client.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.TikaURL, "/"),
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

// ExtractPath uploads the file at path to the Tika server and returns the
// extracted plain text. 4xx responses are permanent failures; 5xx and
// transport errors retry with exponential backoff.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (domain.Extraction, error) {
	// Mitigate file inclusion via variable by constraining allowed paths.
	// Uploaded files are written to the system temp dir.
	openPath, err := constrainPath(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	bfile, err := os.ReadFile(openPath)
	if err != nil {
		return domain.Extraction{}, err
	}

	var result string
	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(bfile))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "text/plain")
		// Content-Type best-effort from extension
		if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
			req.Header.Set("Content-Type", ct)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			observability.ObserveCollaborator("tika", "extract", "error", time.Since(start))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ObserveCollaborator("tika", "extract", "client_error", time.Since(start))
			return backoff.Permanent(fmt.Errorf("tika status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ObserveCollaborator("tika", "extract", "server_error", time.Since(start))
			return fmt.Errorf("tika status %d", resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		observability.ObserveCollaborator("tika", "extract", "success", time.Since(start))
		// Sanitize control characters and collapse all whitespace to single spaces
		sanitized := textx.SanitizeText(string(b))
		result = strings.Join(strings.Fields(sanitized), " ")
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: tika extract: %v", domain.ErrUnavailable, err)
	}

	return domain.Extraction{
		Text:      result,
		WordCount: len(strings.Fields(result)),
	}, nil
}

// Healthy probes the Tika server. A single request, no retries; startup
// strategy selection needs a fast answer.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tika", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tika: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: tika status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// constrainPath restricts reads to the temp dir or the working directory.
func constrainPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	tmp := filepath.Clean(os.TempDir())
	wd, _ := os.Getwd()
	wd = filepath.Clean(wd)
	for _, base := range []string{tmp, wd} {
		if strings.HasPrefix(abs, base+string(os.PathSeparator)) || abs == base {
			rel, err := filepath.Rel(base, abs)
			if err != nil {
				return "", err
			}
			return filepath.Join(base, rel), nil
		}
	}
	return "", fmt.Errorf("disallowed path: %s", abs)
}

func contentTypeFromExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
