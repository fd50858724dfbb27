package index

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the target passage length in runes.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is carried from the tail of each chunk into the
	// next so context is not lost at chunk boundaries.
	DefaultChunkOverlap = 100
)

// Split cuts text into chunks of at most size runes with roughly overlap
// runes shared between consecutive chunks. Paragraph boundaries are
// preferred, then sentence boundaries; only oversized sentences are cut
// mid-text.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}

	maxSeg := size - overlap - 1
	if maxSeg < 1 {
		maxSeg = 1
	}

	segs := segments(text, maxSeg)
	if len(segs) == 0 {
		return nil
	}

	var chunks []string
	var cur []rune
	for _, seg := range segs {
		r := []rune(seg)
		if len(cur) > 0 && len(cur)+len(r)+1 > size {
			chunks = append(chunks, string(cur))
			cur = overlapTail(cur, overlap)
		}
		if len(cur) > 0 {
			cur = append(cur, '\n')
		}
		cur = append(cur, r...)
	}
	if strings.TrimSpace(string(cur)) != "" {
		chunks = append(chunks, string(cur))
	}
	return chunks
}

// segments splits text into paragraph- or sentence-sized pieces of at most
// max runes each.
func segments(text string, max int) []string {
	var out []string
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= max {
			out = append(out, para)
			continue
		}
		out = append(out, splitSentences(para, max)...)
	}
	return out
}

func splitSentences(s string, max int) []string {
	var sentences []string
	runes := []rune(s)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?', '\n':
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				if t := strings.TrimSpace(string(runes[start : i+1])); t != "" {
					sentences = append(sentences, t)
				}
				start = i + 1
			}
		}
	}
	if start < len(runes) {
		if t := strings.TrimSpace(string(runes[start:])); t != "" {
			sentences = append(sentences, t)
		}
	}

	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}
	for _, sent := range sentences {
		r := []rune(sent)
		for len(r) > max {
			flush()
			out = append(out, string(r[:max]))
			r = r[max:]
		}
		if len(r) == 0 {
			continue
		}
		if len(cur)+len(r)+1 > max {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
	}
	flush()
	return out
}

// overlapTail returns the last overlap runes of cur, snapped forward to a
// word boundary so the next chunk does not begin mid-word.
func overlapTail(cur []rune, overlap int) []rune {
	if overlap <= 0 || len(cur) == 0 {
		return nil
	}
	start := len(cur) - overlap
	if start < 0 {
		start = 0
	}
	tail := cur[start:]
	for i, r := range tail {
		if r == ' ' || r == '\n' {
			tail = tail[i+1:]
			break
		}
	}
	trimmed := strings.TrimSpace(string(tail))
	if trimmed == "" {
		return nil
	}
	return append([]rune(nil), []rune(trimmed)...)
}
