package translator

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("短文本。", 100)
	if len(chunks) != 1 || chunks[0] != "短文本。" {
		t.Fatalf("got %q", chunks)
	}
}

func TestSplitChunksEmptyText(t *testing.T) {
	if chunks := SplitChunks("", 100); chunks != nil {
		t.Fatalf("expected nil, got %q", chunks)
	}
}

// Concatenating the chunks must reproduce the input byte for byte; this is
// what makes the identity round trip exact.
func TestSplitChunksExactPartition(t *testing.T) {
	inputs := []string{
		strings.Repeat("這是一個句子。", 100),
		strings.Repeat("第一段。\n\n第二段比較長一點。\n", 50),
		strings.Repeat("x", 95) + "\n" + strings.Repeat("y", 95),
		strings.Repeat("無標點無換行", 40),
		"「他說。」然後走了！真的嗎？就這樣……結束了.",
	}
	for _, in := range inputs {
		chunks := SplitChunks(in, 30)
		if got := strings.Join(chunks, ""); got != in {
			t.Errorf("partition broke input:\n got %q\nwant %q", got, in)
		}
	}
}

func TestSplitChunksRespectsLimit(t *testing.T) {
	in := strings.Repeat("這是一個比較長的句子，用來測試分塊。", 30)
	for _, chunk := range SplitChunks(in, 50) {
		if n := utf8.RuneCountInString(chunk); n > 50 {
			t.Errorf("chunk has %d runes, limit 50: %q", n, chunk)
		}
	}
}

func TestSplitChunksPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("字", 40) + "\n"
	in := para + para + para
	chunks := SplitChunks(in, 50)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.HasSuffix(chunk, "\n") {
			t.Errorf("chunk %d not split at paragraph boundary: %q", i, chunk)
		}
	}
}

func TestSplitChunksSentenceBoundaries(t *testing.T) {
	// One paragraph, too big for the limit, made of small sentences.
	in := strings.Repeat("他看了看天。", 20)
	for _, chunk := range SplitChunks(in, 25) {
		if !strings.HasSuffix(chunk, "。") {
			t.Errorf("chunk not split at sentence boundary: %q", chunk)
		}
	}
}

func TestSplitChunksKeepsClosingQuoteWithSentence(t *testing.T) {
	in := strings.Repeat("「你好嗎？」他問。", 10)
	for _, chunk := range SplitChunks(in, 20) {
		if strings.HasPrefix(chunk, "」") {
			t.Errorf("closing quote split off its sentence: %q", chunk)
		}
	}
}

func TestSplitChunksHardSplitIsRuneSafe(t *testing.T) {
	// A single unbreakable run longer than the limit.
	in := strings.Repeat("獵", 120)
	chunks := SplitChunks(in, 50)
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d split mid-rune", i)
		}
	}
	if got := strings.Join(chunks, ""); got != in {
		t.Error("hard split broke partition")
	}
}
