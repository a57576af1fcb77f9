// Package skillsvc provides the NLP sidecar client implementing
// domain.SkillExtractor. The sidecar does linguistically informed extraction;
// when it is down the in-process catalog extractor takes over, selected at
// startup via the Healthy probe.
package skillsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/talentsift/candidate-screener/internal/adapter/observability"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
)

// sidecarCategories maps the sidecar's category keys onto the domain's.
var sidecarCategories = map[string]domain.SkillCategory{
	"programming_languages": domain.CategoryProgrammingLanguage,
	"frameworks":            domain.CategoryFramework,
	"tools":                 domain.CategoryTool,
	"cloud_platforms":       domain.CategoryCloudPlatform,
	"databases":             domain.CategoryDatabase,
	"soft_skills":           domain.CategorySoftSkill,
	"methodologies":         domain.CategoryMethodology,
	"languages":             domain.CategoryHumanLanguage,
}

// Client talks to the NLP sidecar over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.Config
}

// New constructs an NLP sidecar client.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.NLPServiceURL, "/"),
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

type skillEntry struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Context    string  `json:"context"`
}

type skillsResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Skills  map[string][]skillEntry `json:"skills"`
}

// ExtractSkills posts the text to the sidecar and maps its categorized skills
// onto the domain set. The sidecar rejects empty text, so blank input
// short-circuits to an empty set locally.
func (c *Client) ExtractSkills(ctx context.Context, text string) (domain.SkillSet, error) {
	set := make(domain.SkillSet, len(domain.SkillCategories))
	for _, cat := range domain.SkillCategories {
		set[cat] = nil
	}
	if strings.TrimSpace(text) == "" {
		return set, nil
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	var out skillsResponse
	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/skills", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			observability.ObserveCollaborator("nlp", "skills", "error", time.Since(start))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		// The sidecar serializes analyses; 429 means busy, retry.
		if resp.StatusCode == http.StatusTooManyRequests {
			observability.ObserveCollaborator("nlp", "skills", "busy", time.Since(start))
			return fmt.Errorf("nlp sidecar busy")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ObserveCollaborator("nlp", "skills", "client_error", time.Since(start))
			return backoff.Permanent(fmt.Errorf("nlp status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ObserveCollaborator("nlp", "skills", "server_error", time.Since(start))
			return fmt.Errorf("nlp status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(err)
		}
		if !out.Success {
			observability.ObserveCollaborator("nlp", "skills", "failure", time.Since(start))
			return backoff.Permanent(fmt.Errorf("nlp: %s", out.Error))
		}
		observability.ObserveCollaborator("nlp", "skills", "success", time.Since(start))
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		return nil, fmt.Errorf("%w: nlp skills: %v", domain.ErrUnavailable, err)
	}

	for key, entries := range out.Skills {
		cat, ok := sidecarCategories[key]
		if !ok {
			continue
		}
		for _, e := range entries {
			set[cat] = append(set[cat], domain.ExtractedSkill{
				Name:       e.Name,
				Category:   cat,
				Confidence: e.Confidence,
				Context:    e.Context,
				Start:      e.Start,
				End:        e.End,
			})
		}
	}
	return set, nil
}

// Healthy probes the sidecar's health endpoint with a single request.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: nlp: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: nlp status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return nil
}
