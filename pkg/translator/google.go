package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultEndpoint = "https://translate.googleapis.com/translate_a/single"
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// The endpoint rejects long GET URLs; switch to a form POST above this.
	getLimit = 1800
)

// Config is the translation surface of the pipeline configuration.
type Config struct {
	SourceLang     string
	TargetLang     string
	MaxChunkChars  int
	RequestTimeout time.Duration
	Retry          RetryPolicy
}

func (c *Config) applyDefaults() {
	if c.SourceLang == "" {
		c.SourceLang = "zh-CN"
	}
	if c.TargetLang == "" {
		c.TargetLang = "en"
	}
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = DefaultMaxChunkChars
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = DefaultRetryPolicy()
	}
}

// GoogleClient talks to the free Google Translate endpoint (client=gtx).
type GoogleClient struct {
	cfg      Config
	client   *http.Client
	endpoint string
}

func NewGoogleClient(cfg Config) *GoogleClient {
	cfg.applyDefaults()
	return &GoogleClient{
		cfg:      cfg,
		client:   &http.Client{},
		endpoint: defaultEndpoint,
	}
}

func (g *GoogleClient) Split(text string) []string {
	return SplitChunks(text, g.cfg.MaxChunkChars)
}

// TranslateChunk translates one chunk, retrying transient failures under
// the configured policy. Each attempt runs under its own timeout; an
// attempt that times out counts as transient.
func (g *GoogleClient) TranslateChunk(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	var out string
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()

		translated, err := g.request(attemptCtx, text)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !isTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = translated
		return nil
	}
	if err := backoff.Retry(op, g.cfg.Retry.backOff(ctx)); err != nil {
		return "", err
	}
	return out, nil
}

// Translate is the whole-text convenience: split, translate each chunk in
// order, rejoin. A failed chunk fails the call with a TranslationError
// naming the chunk.
func (g *GoogleClient) Translate(ctx context.Context, text string) (string, error) {
	chunks := g.Split(text)
	var b strings.Builder
	for i, chunk := range chunks {
		translated, err := g.TranslateChunk(ctx, chunk)
		if err != nil {
			return "", &TranslationError{ChunkIndex: i, Cause: err}
		}
		b.WriteString(translated)
	}
	return b.String(), nil
}

func (g *GoogleClient) request(ctx context.Context, text string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {g.cfg.SourceLang},
		"tl":     {g.cfg.TargetLang},
		"dt":     {"t"},
		"dj":     {"1"},
		"q":      {text},
	}

	var req *http.Request
	var err error
	if len(text) <= getLimit {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint,
			strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode}
	}

	var payload struct {
		Sentences []struct {
			Trans string `json:"trans"`
		} `json:"sentences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	var b strings.Builder
	for _, s := range payload.Sentences {
		b.WriteString(s.Trans)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errEmptyTranslation
	}
	return b.String(), nil
}

var errEmptyTranslation = errors.New("empty translation response")

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("translate endpoint returned status %d", e.code)
}

// isTransient decides whether an attempt error is worth retrying: network
// errors, timeouts, rate-limit and server-side statuses are; other HTTP
// statuses are not.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusTooManyRequests:
			return true
		case se.code == http.StatusRequestTimeout:
			return true
		case se.code >= 500:
			return true
		}
		return false
	}
	// Network-level failures, attempt timeouts, empty or garbled responses.
	return true
}
