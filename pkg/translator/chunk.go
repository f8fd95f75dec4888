package translator

import "unicode/utf8"

// DefaultMaxChunkChars keeps chunks comfortably inside the translate
// endpoint's payload limit while staying large enough to carry sentence
// context.
const DefaultMaxChunkChars = 4000

var sentenceEnders = map[rune]bool{
	'。': true, '！': true, '？': true, '…': true,
	'.': true, '!': true, '?': true,
}

// sentenceTrailers stay attached to the sentence they close.
var sentenceTrailers = map[rune]bool{
	'」': true, '』': true, '”': true, '’': true,
	'"': true, '\'': true, '）': true, ')': true,
}

// SplitChunks partitions text into chunks of at most maxChars runes,
// splitting greedily at paragraph boundaries, then sentence boundaries, and
// only hard-splitting mid-sentence when a single sentence exceeds the limit.
// Splits are always at rune boundaries and the chunks concatenate back to
// the input exactly.
func SplitChunks(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var cur []rune
	for _, seg := range segments(text, maxChars) {
		runes := []rune(seg)
		if len(cur) > 0 && len(cur)+len(runes) > maxChars {
			chunks = append(chunks, string(cur))
			cur = nil
		}
		for len(runes) > maxChars {
			chunks = append(chunks, string(runes[:maxChars]))
			runes = runes[maxChars:]
		}
		cur = append(cur, runes...)
	}
	if len(cur) > 0 {
		chunks = append(chunks, string(cur))
	}
	return chunks
}

// segments yields paragraphs, breaking oversized paragraphs into sentences.
// Every separator stays attached to the segment it follows, so segments are
// an exact partition of the input.
func segments(text string, maxChars int) []string {
	var segs []string
	for _, para := range splitParagraphs(text) {
		if utf8.RuneCountInString(para) <= maxChars {
			segs = append(segs, para)
			continue
		}
		segs = append(segs, splitSentences(para)...)
	}
	return segs
}

// splitParagraphs splits after each run of newlines.
func splitParagraphs(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\n' {
			continue
		}
		for i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
		out = append(out, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// splitSentences splits after sentence terminators, keeping closing quotes
// and brackets with the sentence they end.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !sentenceEnders[runes[i]] {
			continue
		}
		for i+1 < len(runes) && sentenceTrailers[runes[i+1]] {
			i++
		}
		out = append(out, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}
