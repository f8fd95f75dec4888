package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/joelsnl/noveldl/pkg/data"
)

func init() {
	register(NewTwkan())
}

var twkanBookID = regexp.MustCompile(`/(?:book|txt)/(\d+)`)

// Twkan scrapes twkan.com. The site hides the full chapter list behind a
// "load more" button, but an AJAX endpoint returns it whole.
type Twkan struct {
	baseURL string
	fetch   *Fetcher
}

func NewTwkan() *Twkan {
	return &Twkan{
		baseURL: "https://twkan.com",
		fetch:   NewFetcher(time.Second, 2),
	}
}

func (t *Twkan) SiteName() string { return "twkan.com" }

func (t *Twkan) Domains() []string { return []string{"twkan.com"} }

func (t *Twkan) GetNovelInfo(ctx context.Context, url string) (*data.Novel, error) {
	doc, err := t.fetch.Document(ctx, url)
	if err != nil {
		return nil, err
	}

	novel := &data.Novel{
		Title:       metaContent(doc, "og:title"),
		Author:      metaContent(doc, "og:novel:author"),
		Description: metaContent(doc, "og:description"),
		CoverURL:    metaContent(doc, "og:image"),
		Language:    "zh",
		SourceURL:   url,
	}
	if novel.Title == "" {
		novel.Title = strings.TrimSpace(doc.Find(".booknav2 h1 a, .booknav2 h1, h1").First().Text())
	}
	if novel.Author == "" {
		novel.Author = strings.TrimSpace(doc.Find(".booknav2 p a[href*='/author/']").First().Text())
	}
	if novel.Description == "" {
		novel.Description = strings.TrimSpace(doc.Find(".navtxt p").First().Text())
	}
	if novel.CoverURL == "" {
		if src, ok := doc.Find(".bookimg2 img, .bookimg img").First().Attr("src"); ok {
			novel.CoverURL = src
		}
	}
	if novel.CoverURL == "" {
		// Cover URLs follow a predictable layout keyed by book ID.
		if m := twkanBookID.FindStringSubmatch(url); m != nil {
			id := m[1]
			prefix := id
			if len(id) >= 2 {
				prefix = id[:2]
			}
			novel.CoverURL = fmt.Sprintf("%s/files/article/image/%s/%s/%ss.jpg", t.baseURL, prefix, id, id)
		}
	}
	if category := metaContent(doc, "og:novel:category"); category != "" {
		novel.Tags = append(novel.Tags, category)
	}
	return novel, nil
}

func (t *Twkan) GetChapterList(ctx context.Context, url string) ([]*data.Chapter, error) {
	m := twkanBookID.FindStringSubmatch(url)
	if m == nil {
		return nil, &FetchError{URL: url, Cause: fmt.Errorf("could not extract book ID")}
	}

	// Visit the main page first; it sets the cookies the AJAX endpoint
	// expects.
	if _, err := t.fetch.HTML(ctx, url); err != nil {
		return nil, err
	}

	ajaxURL := fmt.Sprintf("%s/ajax_novels/chapterlist/%s.html", t.baseURL, m[1])
	doc, err := t.fetch.Document(ctx, ajaxURL)
	if err != nil {
		return nil, err
	}

	var chapters []*data.Chapter
	doc.Find("ul li a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "/txt/") {
			return
		}
		chapters = append(chapters, &data.Chapter{
			Index: len(chapters),
			Title: strings.TrimSpace(s.Text()),
			URL:   absoluteURL(t.baseURL, href),
		})
	})
	return chapters, nil
}

func (t *Twkan) GetChapterContent(ctx context.Context, chapter *data.Chapter) (string, error) {
	doc, err := t.fetch.Document(ctx, chapter.URL)
	if err != nil {
		return "", err
	}

	content := doc.Find("#txtcontent0").First()
	if content.Length() == 0 {
		return "", &FetchError{URL: chapter.URL, Cause: fmt.Errorf("content container not found")}
	}
	content.Find("script, .ads, .ad, .txtad, .txtcenter, ins.adsbygoogle, .advertisement").Remove()

	title := strings.TrimSpace(doc.Find(".txtnav h1, #container .txtnav h1, h1").First().Text())
	if title == "" {
		title = chapter.Title
	}

	body, err := goquery.OuterHtml(content)
	if err != nil {
		return "", &FetchError{URL: chapter.URL, Cause: err}
	}
	return fmt.Sprintf("<h1>%s</h1>\n%s", title, body), nil
}
