package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/joelsnl/noveldl/pkg/data"
)

// EPubBuilder assembles delivered chapters into a single EPUB file.
type EPubBuilder struct {
	outputDir string
	book      *epub.Epub
	novel     *data.Novel
	lastIndex int
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir, lastIndex: -1}
}

func (b *EPubBuilder) Init(novel *data.Novel) error {
	if novel == nil {
		return fmt.Errorf("novel cannot be nil")
	}
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(novel.Title)
	if err != nil {
		return fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(novel.Author)
	if novel.Description != "" {
		e.SetDescription(novel.Description)
	}
	if novel.Language != "" {
		e.SetLang(novel.Language)
	}

	b.book = e
	b.novel = novel

	// Cover failures are never fatal; the book just ships without one.
	if novel.CoverURL != "" {
		b.setCover(novel.CoverURL)
	}
	return nil
}

// AddChapter appends one chapter section. Indices must be strictly
// ascending; a violation means the ordering discipline upstream is broken
// and the build aborts.
func (b *EPubBuilder) AddChapter(index int, title, body string) error {
	if b.book == nil {
		return fmt.Errorf("builder not initialized")
	}
	if index <= b.lastIndex {
		return fmt.Errorf("chapter %d out of order (last added %d)", index, b.lastIndex)
	}
	b.lastIndex = index

	filename := fmt.Sprintf("chapter_%04d.xhtml", index)
	if _, err := b.book.AddSection(chapterHTML(title, body), title, filename, ""); err != nil {
		return fmt.Errorf("failed to add chapter %d: %w", index, err)
	}
	return nil
}

func (b *EPubBuilder) Finalize() (string, error) {
	if b.book == nil {
		return "", fmt.Errorf("builder not initialized")
	}
	outputPath := filepath.Join(b.outputDir, sanitizeFilename(b.novel.Title)+".epub")
	if err := b.book.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

// chapterHTML renders cleaned text as XHTML: heading plus one <p> per
// paragraph (blank-line separated).
func chapterHTML(title, body string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title)))
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		for i, line := range strings.Split(para, "\n") {
			if i > 0 {
				sb.WriteString("<br/>")
			}
			sb.WriteString(html.EscapeString(line))
		}
		sb.WriteString("</p>\n")
	}
	return sb.String()
}

// sanitizeFilename removes characters that are invalid in filenames.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		result = "novel"
	}
	return result
}
