package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joelsnl/noveldl/pkg/data"
)

const twkanBookPage = `<html><head>
<meta property="og:title" content="獵命師傳奇" />
<meta property="og:novel:author" content="九把刀" />
<meta property="og:description" content="獵命師的故事。" />
<meta property="og:image" content="https://twkan.com/files/article/image/12/12345/12345s.jpg" />
<meta property="og:novel:category" content="玄幻" />
</head><body></body></html>`

const twkanChapterListPage = `<html><body><ul>
<li><a href="/txt/12345/100001">第一章 命格</a></li>
<li><a href="/txt/12345/100002">第二章 獵人</a></li>
<li><a href="/book/12345.html">目錄頁</a></li>
</ul></body></html>`

const twkanChapterPage = `<html><body>
<div class="txtnav"><h1>第一章 命格</h1></div>
<div id="txtcontent0">
正文第一行。<br/>
<script>adcode()</script>
<div class="txtad">廣告內容</div>
正文第二行。
</div>
</body></html>`

func testTwkan(srvURL string) *Twkan {
	f := NewFetcher(0, 0)
	f.retryInterval = 0
	return &Twkan{baseURL: srvURL, fetch: f}
}

func twkanTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/book/12345.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twkanBookPage)
	})
	mux.HandleFunc("/ajax_novels/chapterlist/12345.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twkanChapterListPage)
	})
	mux.HandleFunc("/txt/12345/100001", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twkanChapterPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTwkanGetNovelInfo(t *testing.T) {
	srv := twkanTestServer(t)
	tw := testTwkan(srv.URL)

	novel, err := tw.GetNovelInfo(context.Background(), srv.URL+"/book/12345.html")
	assert.NoError(t, err)
	assert.Equal(t, "獵命師傳奇", novel.Title)
	assert.Equal(t, "九把刀", novel.Author)
	assert.Equal(t, "獵命師的故事。", novel.Description)
	assert.Equal(t, "https://twkan.com/files/article/image/12/12345/12345s.jpg", novel.CoverURL)
	assert.Equal(t, "zh", novel.Language)
	assert.Contains(t, novel.Tags, "玄幻")
}

func TestTwkanGetChapterList(t *testing.T) {
	srv := twkanTestServer(t)
	tw := testTwkan(srv.URL)

	chapters, err := tw.GetChapterList(context.Background(), srv.URL+"/book/12345.html")
	assert.NoError(t, err)
	assert.Len(t, chapters, 2, "non-chapter links must be filtered out")

	assert.Equal(t, 0, chapters[0].Index)
	assert.Equal(t, "第一章 命格", chapters[0].Title)
	assert.Equal(t, srv.URL+"/txt/12345/100001", chapters[0].URL)
	assert.Equal(t, 1, chapters[1].Index)
	assert.Equal(t, "第二章 獵人", chapters[1].Title)
}

func TestTwkanGetChapterListBadURL(t *testing.T) {
	tw := testTwkan("http://127.0.0.1:0")
	_, err := tw.GetChapterList(context.Background(), "https://twkan.com/author/someone")
	assert.Error(t, err)
}

func TestTwkanGetChapterContent(t *testing.T) {
	srv := twkanTestServer(t)
	tw := testTwkan(srv.URL)

	ch := &data.Chapter{Index: 0, Title: "第一章 命格", URL: srv.URL + "/txt/12345/100001"}
	raw, err := tw.GetChapterContent(context.Background(), ch)
	assert.NoError(t, err)

	assert.Contains(t, raw, "<h1>第一章 命格</h1>")
	assert.Contains(t, raw, "正文第一行。")
	assert.Contains(t, raw, "正文第二行。")
	assert.NotContains(t, raw, "adcode")
	assert.NotContains(t, raw, "廣告內容")
}

func TestTwkanGetChapterContentMissingContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>wrong page</p></body></html>`)
	}))
	defer srv.Close()
	tw := testTwkan(srv.URL)

	ch := &data.Chapter{URL: srv.URL + "/whatever"}
	_, err := tw.GetChapterContent(context.Background(), ch)
	assert.Error(t, err)
}
