package index

import (
	"context"
	"errors"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// ErrIndexNotFound is returned by PassageStore.Load when no index with the
// given name has been built.
var ErrIndexNotFound = errors.New("index not found")

// PassageStore persists a built knowledge index under a fixed name and
// loads it back at service startup. Stores are write-once per build; the
// loaded index is read-only.
type PassageStore interface {
	Save(ctx context.Context, name string, passages []domain.ReferencePassage) error
	Load(ctx context.Context, name string) ([]domain.ReferencePassage, error)
}
