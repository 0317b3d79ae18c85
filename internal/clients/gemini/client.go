// Package gemini is a minimal client for the Gemini generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Defaults applied by New
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 30 * time.Second
)

// GeminiError is a custom error type for client errors
type GeminiError string

// Error implements the error interface
func (e GeminiError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig    GeminiError = "config cannot be nil"
	ErrMissingKey   GeminiError = "api key is required"
	ErrNoCandidates GeminiError = "response has no generated content"
	ErrBadStatus    GeminiError = "unexpected response status"
)

// Config for the client
type Config struct {
	APIKey string

	// Model defaults to DefaultModel
	Model string

	// BaseURL defaults to DefaultBaseURL
	BaseURL string

	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient defaults to a client with DefaultTimeout
	HTTPClient *http.Client

	Logger *zerolog.Logger
}

// Client generates text with Gemini. It implements dialogue.Generator.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// New creates a client
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	log := logging.OrNop(cfg.Logger)
	return &Client{
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(model)),
		apiKey:   cfg.APIKey,
		http:     httpClient,
		limiter:  limiter,
		log:      log.With().Str("component", "gemini").Logger(),
	}, nil
}

// Generate sends prompt and returns the first candidate's first text part
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	c.log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(started)).Msg("gemini responded")

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
