package index

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	if got := Split("", DefaultChunkSize, DefaultChunkOverlap); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := Split("   \n\n  ", DefaultChunkSize, DefaultChunkOverlap); got != nil {
		t.Fatalf("expected nil for whitespace text, got %v", got)
	}
}

func TestSplit_ShortText(t *testing.T) {
	chunks := Split("One short paragraph.", DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "One short paragraph." {
		t.Fatalf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplit_RespectsSizeLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("The river kept rising through the night and nobody noticed. ")
	}

	size, overlap := 300, 50
	chunks := Split(sb.String(), size, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > size {
			t.Fatalf("chunk %d exceeds size limit: %d > %d", i, n, size)
		}
	}
}

func TestSplit_OverlapCarriesContext(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("Recurring dreams about falling often track waking stress levels. ")
	}

	chunks := Split(sb.String(), 300, 80)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// The head of each later chunk repeats text from the previous one.
	for i := 1; i < len(chunks); i++ {
		head := strings.SplitN(chunks[i], "\n", 2)[0]
		if head == "" {
			continue
		}
		if !strings.Contains(chunks[i-1], strings.Fields(head)[0]) {
			t.Fatalf("chunk %d head %q not carried from previous chunk", i, head)
		}
	}
}

func TestSplit_PreservesParagraphs(t *testing.T) {
	text := "First paragraph about water.\n\nSecond paragraph about fire."
	chunks := Split(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) != 1 {
		t.Fatalf("expected both paragraphs in 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0], "water") || !strings.Contains(chunks[0], "fire") {
		t.Fatalf("paragraph content lost: %q", chunks[0])
	}
}

func TestSplit_OversizedSentence(t *testing.T) {
	long := strings.Repeat("가나다라마바사아자차", 60) // no sentence boundaries
	chunks := Split(long, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected forced mid-text cuts, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Fatalf("chunk %d exceeds size limit: %d", i, n)
		}
	}
}

func TestSplit_DefaultsOnBadParams(t *testing.T) {
	chunks := Split("Some text.", 0, -5)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk with defaulted params, got %d", len(chunks))
	}
}
