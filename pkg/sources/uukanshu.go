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
	register(NewUUKanshu())
}

var uukanshuBookID = regexp.MustCompile(`/book/(\d+)`)

// UUKanshu scrapes uukanshu.cc, a Traditional Chinese site that lists all
// chapters directly on the book index page.
type UUKanshu struct {
	baseURL string
	fetch   *Fetcher
}

func NewUUKanshu() *UUKanshu {
	return &UUKanshu{
		baseURL: "https://uukanshu.cc",
		fetch:   NewFetcher(2*time.Second, 2),
	}
}

func (u *UUKanshu) SiteName() string { return "uukanshu.cc" }

func (u *UUKanshu) Domains() []string { return []string{"uukanshu.cc"} }

func (u *UUKanshu) indexURL(rawURL string) (string, error) {
	m := uukanshuBookID.FindStringSubmatch(rawURL)
	if m == nil {
		return "", &FetchError{URL: rawURL, Cause: fmt.Errorf("could not extract book ID")}
	}
	return fmt.Sprintf("%s/book/%s/", u.baseURL, m[1]), nil
}

func (u *UUKanshu) GetNovelInfo(ctx context.Context, url string) (*data.Novel, error) {
	indexURL, err := u.indexURL(url)
	if err != nil {
		return nil, err
	}
	doc, err := u.fetch.Document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	novel := &data.Novel{
		Title:       metaContent(doc, "og:novel:book_name"),
		Author:      metaContent(doc, "og:novel:author"),
		Description: metaContent(doc, "og:description"),
		CoverURL:    metaContent(doc, "og:image"),
		Language:    "zh-Hant",
		SourceURL:   url,
	}
	if novel.Title == "" {
		novel.Title = metaContent(doc, "og:title")
	}
	if novel.Title == "" {
		novel.Title = strings.TrimSpace(doc.Find("h1.booktitle, .bookinfo h1, h1").First().Text())
	}
	if novel.Author == "" {
		novel.Author = strings.TrimSpace(doc.Find(".booktag a.red[href*='author']").First().Text())
	}
	if novel.Description == "" {
		novel.Description = strings.TrimSpace(doc.Find("p.bookintro").First().Text())
	}
	if novel.CoverURL == "" {
		if src, ok := doc.Find(".bookcover img.thumbnail, .bookinfo img.thumbnail").First().Attr("src"); ok {
			novel.CoverURL = src
		}
	}
	if category := metaContent(doc, "og:novel:category"); category != "" {
		novel.Tags = append(novel.Tags, category)
	}
	return novel, nil
}

func (u *UUKanshu) GetChapterList(ctx context.Context, url string) ([]*data.Chapter, error) {
	indexURL, err := u.indexURL(url)
	if err != nil {
		return nil, err
	}
	doc, err := u.fetch.Document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	links := doc.Find("dl.chapterlist dd a")
	if links.Length() == 0 {
		links = doc.Find("#list-chapterAll dd a")
	}

	var chapters []*data.Chapter
	links.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if href == "" || title == "" {
			return
		}
		chapters = append(chapters, &data.Chapter{
			Index: len(chapters),
			Title: title,
			URL:   absoluteURL(u.baseURL, href),
		})
	})
	return chapters, nil
}

func (u *UUKanshu) GetChapterContent(ctx context.Context, chapter *data.Chapter) (string, error) {
	doc, err := u.fetch.Document(ctx, chapter.URL)
	if err != nil {
		return "", err
	}

	// Site typo: the container really is "readcotent".
	content := doc.Find("div.readcotent").First()
	if content.Length() == 0 {
		content = doc.Find("div.readcontent, div.content, #bookContent").First()
	}
	if content.Length() == 0 {
		return "", &FetchError{URL: chapter.URL, Cause: fmt.Errorf("content container not found")}
	}
	content.Find("script, ins.adsbygoogle, .ads, .ad, iframe").Remove()

	title := strings.TrimSpace(doc.Find("div.read h1, h1.pt10, h1").First().Text())
	if title == "" {
		title = chapter.Title
	}

	body, err := goquery.OuterHtml(content)
	if err != nil {
		return "", &FetchError{URL: chapter.URL, Cause: err}
	}
	return fmt.Sprintf("<h1>%s</h1>\n%s", title, body), nil
}
