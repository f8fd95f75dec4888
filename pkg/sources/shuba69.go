package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/joelsnl/noveldl/pkg/data"
)

func init() {
	register(NewShuba69())
}

// Shuba69 scrapes the 69shuba family of mirrors. The book page links to a
// separate catalog page, which lists chapters newest first.
type Shuba69 struct {
	baseURL string
	fetch   *Fetcher
}

func NewShuba69() *Shuba69 {
	return &Shuba69{
		baseURL: "https://69shuba.com",
		fetch:   NewFetcher(time.Second, 2),
	}
}

func (s *Shuba69) SiteName() string { return "69shuba.com" }

func (s *Shuba69) Domains() []string {
	return []string{"69shuba.com", "69shu.com", "69shuba.cx", "69shu.pro", "69shuba.pro"}
}

func (s *Shuba69) GetNovelInfo(ctx context.Context, url string) (*data.Novel, error) {
	doc, err := s.fetch.Document(ctx, url)
	if err != nil {
		return nil, err
	}

	novel := &data.Novel{
		Title:       strings.TrimSpace(doc.Find("div.booknav2 h1").First().Text()),
		Description: strings.TrimSpace(doc.Find(".navtxt p, .bookintro").First().Text()),
		Language:    "zh",
		SourceURL:   url,
	}
	doc.Find(".booknav2 a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.Contains(href, "author") {
			novel.Author = strings.TrimSpace(sel.Text())
			return false
		}
		return true
	})
	if src, ok := doc.Find("div.bookbox img").First().Attr("src"); ok {
		novel.CoverURL = src
	}
	if category := strings.TrimSpace(doc.Find(".booknav2 a[href*='sort']").First().Text()); category != "" {
		novel.Tags = append(novel.Tags, category)
	}
	return novel, nil
}

func (s *Shuba69) GetChapterList(ctx context.Context, url string) ([]*data.Chapter, error) {
	doc, err := s.fetch.Document(ctx, url)
	if err != nil {
		return nil, err
	}

	tocHref, ok := doc.Find("a.more-btn").First().Attr("href")
	if !ok {
		return nil, &FetchError{URL: url, Cause: fmt.Errorf("chapter list link not found")}
	}
	tocURL := absoluteURL(s.baseURL, tocHref)

	tocDoc, err := s.fetch.Document(ctx, tocURL)
	if err != nil {
		return nil, err
	}

	menu := tocDoc.Find("#catalog ul").First()
	if menu.Length() == 0 {
		menu = tocDoc.Find(".catalog ul, .mulu ul, #list ul").First()
	}
	if menu.Length() == 0 {
		return nil, &FetchError{URL: tocURL, Cause: fmt.Errorf("chapter list container not found")}
	}

	var chapters []*data.Chapter
	menu.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())
		if href == "" || title == "" {
			return
		}
		chapters = append(chapters, &data.Chapter{
			Title: title,
			URL:   absoluteURL(s.baseURL, href),
		})
	})

	// The catalog lists newest first; flip to reading order and index.
	for i, j := 0, len(chapters)-1; i < j; i, j = i+1, j-1 {
		chapters[i], chapters[j] = chapters[j], chapters[i]
	}
	for i, ch := range chapters {
		ch.Index = i
	}
	return chapters, nil
}

func (s *Shuba69) GetChapterContent(ctx context.Context, chapter *data.Chapter) (string, error) {
	doc, err := s.fetch.Document(ctx, chapter.URL)
	if err != nil {
		return "", err
	}

	content := doc.Find("div.txtnav").First()
	if content.Length() == 0 {
		return "", &FetchError{URL: chapter.URL, Cause: fmt.Errorf("content container not found")}
	}
	content.Find(".txtinfo, #txtright, .bottom-ad, script, .ads, .ad, ins.adsbygoogle").Remove()

	title := strings.TrimSpace(doc.Find("h1, .txtnav h1").First().Text())
	if title == "" {
		title = chapter.Title
	}

	body, err := goquery.OuterHtml(content)
	if err != nil {
		return "", &FetchError{URL: chapter.URL, Cause: err}
	}
	return fmt.Sprintf("<h1>%s</h1>\n%s", title, body), nil
}
