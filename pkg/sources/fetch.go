package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher is the shared page fetcher for site parsers: one rate limiter per
// site, bounded retries with exponential backoff, browser-ish headers.
type Fetcher struct {
	client        *http.Client
	limiter       *rate.Limiter
	retries       int
	retryInterval time.Duration
}

// NewFetcher builds a fetcher that issues at most one request per delay
// interval and retries failed requests up to retries additional times.
func NewFetcher(delay time.Duration, retries int) *Fetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if retries < 0 {
		retries = 0
	}
	return &Fetcher{
		client:        &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(limit, 1),
		retries:       retries,
		retryInterval: 2 * time.Second,
	}
}

// HTML fetches a page and returns its body. Errors are wrapped in
// FetchError after retries are exhausted.
func (f *Fetcher) HTML(ctx context.Context, url string) (string, error) {
	var body string
	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", fetchUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bad status: %s", resp.Status)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(raw)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retryInterval
	b.MaxElapsedTime = 0
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.retries)), ctx)); err != nil {
		return "", &FetchError{URL: url, Cause: err}
	}
	return body, nil
}

// Document fetches a page and parses it.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.HTML(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	return doc, nil
}

// metaContent reads a meta tag's content attribute, empty when absent.
func metaContent(doc *goquery.Document, property string) string {
	sel := fmt.Sprintf("meta[property='%s']", property)
	content, _ := doc.Find(sel).First().Attr("content")
	return strings.TrimSpace(content)
}

// absoluteURL resolves href against base when it is not already absolute.
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
