package sources

import (
	"context"
	"fmt"

	"github.com/joelsnl/noveldl/pkg/data"
)

// Parser is the per-site scraping capability. One implementation per
// supported novel site, selected by URL domain through the registry.
type Parser interface {
	SiteName() string
	Domains() []string

	GetNovelInfo(ctx context.Context, url string) (*data.Novel, error)
	GetChapterList(ctx context.Context, url string) ([]*data.Chapter, error)
	GetChapterContent(ctx context.Context, chapter *data.Chapter) (string, error)
}

// FetchError reports an unreachable or unparseable source page. The caller
// marks the chapter failed and moves on; it never aborts the run.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// UnsupportedSiteError means no registered parser claims the URL's domain.
type UnsupportedSiteError struct {
	URL string
}

func (e *UnsupportedSiteError) Error() string {
	return fmt.Sprintf("no parser registered for %s", e.URL)
}
