package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Cleaner strips watermarks, ad containers and junk markup from raw chapter
// HTML and returns normalized plain text. Cleaning is total: it never fails,
// worst case a rule simply does not apply and the text passes through.
type Cleaner struct {
	watermarks []*regexp.Regexp
}

// New compiles the default rule set plus any custom watermark patterns.
// Patterns that do not compile are skipped.
func New(customWatermarks ...string) *Cleaner {
	c := &Cleaner{}
	for _, pattern := range append(append([]string{}, defaultWatermarks...), customWatermarks...) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		c.watermarks = append(c.watermarks, re)
	}
	return c
}

// Clean turns raw chapter HTML into cleaned text. Pure and deterministic:
// same input, same output, no I/O.
func (c *Cleaner) Clean(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return c.CleanText(raw)
	}

	doc.Find(removeSelector).Remove()
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		for _, name := range strings.Fields(strings.ToLower(class)) {
			if adDivClasses[name] {
				s.Remove()
				return
			}
		}
	})

	// Preserve line structure before flattening to text.
	doc.Find("br").ReplaceWithHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return c.CleanText(raw)
	}

	var b strings.Builder
	if blocks := body.Find("h1, h2, h3, h4, p"); blocks.Length() > 0 {
		blocks.Each(func(_ int, s *goquery.Selection) {
			b.WriteString(s.Text())
			b.WriteString("\n\n")
		})
	} else {
		b.WriteString(body.Text())
	}

	return c.CleanText(b.String())
}

// CleanText applies the text-level rules only: invisible characters,
// watermark patterns, whitespace normalization.
func (c *Cleaner) CleanText(text string) string {
	for _, r := range invisibleChars {
		text = strings.ReplaceAll(text, string(r), "")
	}
	// Non-breaking hyphen confuses downstream translation.
	text = strings.ReplaceAll(text, "\u2011", "-")

	for _, re := range c.watermarks {
		text = re.ReplaceAllString(text, "")
	}

	return normalizeWhitespace(text)
}

// normalizeWhitespace collapses intra-line runs of spaces, drops blank-only
// lines down to single paragraph breaks and trims the ends.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := true // swallow leading blanks
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		out = append(out, line)
		blank = false
	}
	// Drop a trailing paragraph break.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
