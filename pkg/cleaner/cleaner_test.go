package cleaner

import (
	"strings"
	"testing"
)

func TestCleanStripsJunkMarkup(t *testing.T) {
	raw := `<html><body>
		<script>alert("x")</script>
		<div class="txtAd">買廣告</div>
		<p>第一段。</p>
		<p>第二段。</p>
	</body></html>`

	got := New().Clean(raw)

	if strings.Contains(got, "alert") {
		t.Errorf("script content survived: %q", got)
	}
	if strings.Contains(got, "買廣告") {
		t.Errorf("ad div content survived: %q", got)
	}
	if !strings.Contains(got, "第一段。") || !strings.Contains(got, "第二段。") {
		t.Errorf("chapter text lost: %q", got)
	}
}

func TestCleanPreservesLineBreaks(t *testing.T) {
	raw := `<html><body><div>line one<br/>line two<br/><br/>line three</div></body></html>`
	got := New().Clean(raw)

	want := "line one\nline two\n\nline three"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanTextRemovesWatermarks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		gone string
	}{
		{"promo phrase", "正文開始。本書由台灣小說網首發，請多支持。", "本書由台灣小說網首發"},
		{"site url", "精彩內容 twkan.com 繼續閱讀", "twkan.com"},
		{"fullwidth url", "看小說就來ｕｕｋａｎｓｈｕ．ｃｃ好看", "ｕｕｋａｎｓｈｕ"},
		{"styled url", "全文無錯請看→ 𝟞𝟡𝕤𝕙𝕦.𝕔𝕠𝕞", "𝟞𝟡𝕤𝕙𝕦"},
	}

	c := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.CleanText(tc.in)
			if strings.Contains(got, tc.gone) {
				t.Errorf("watermark survived: %q", got)
			}
		})
	}
}

func TestCleanTextRemovesInvisibleChars(t *testing.T) {
	got := New().CleanText("他\u200b說\ufeff道\u200d。")
	if got != "他說道。" {
		t.Errorf("got %q", got)
	}
}

func TestCleanTextNormalizesWhitespace(t *testing.T) {
	in := "  第一行   有多餘空格  \n\n\n\n第二行\n   \n第三行  "
	got := New().CleanText(in)

	want := "第一行 有多餘空格\n\n第二行\n\n第三行"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Cleaning the same text twice must change nothing the second time.
func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"正文。本書由台灣小說網首發。後續。",
		"line one\n\nline two 𝕒𝕓𝕔.𝕔𝕠𝕞 tail",
		"  spaced   out  \n\n\n text ",
	}
	c := New()
	for _, in := range inputs {
		once := c.CleanText(in)
		twice := c.CleanText(once)
		if once != twice {
			t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestCustomWatermarkPatterns(t *testing.T) {
	c := New(`SITE-MARK-\d+`)
	got := c.CleanText("before SITE-MARK-42 after")
	if strings.Contains(got, "SITE-MARK") {
		t.Errorf("custom watermark survived: %q", got)
	}
}

func TestInvalidCustomPatternIsSkipped(t *testing.T) {
	// Must not panic, and the valid defaults still apply.
	c := New(`([unclosed`)
	got := c.CleanText("text twkan.com more")
	if strings.Contains(got, "twkan.com") {
		t.Errorf("default watermark not applied: %q", got)
	}
}

func TestCleanPlainTextInput(t *testing.T) {
	// Non-HTML input still flows through text cleaning.
	got := New().Clean("純文字內容，沒有標籤。")
	if !strings.Contains(got, "純文字內容") {
		t.Errorf("plain text mangled: %q", got)
	}
}
