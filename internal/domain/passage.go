package domain

import "github.com/google/uuid"

// Document is one source reference file fed to the index builder.
type Document struct {
	ID   string
	Text string
}

// ReferencePassage is an immutable chunk of reference text plus its
// embedding vector. Passages are created once at index-build time and are
// never mutated afterwards.
type ReferencePassage struct {
	ID         uuid.UUID `json:"id"`
	DocumentID string    `json:"document_id"`
	Seq        int       `json:"seq"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
}
