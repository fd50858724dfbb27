package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

const (
	manifestFile = "manifest.json"
	passagesFile = "passages.json"
)

// DiskStore persists indexes as named bundle directories on local storage:
// <dir>/<name>/manifest.json + passages.json.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

type manifest struct {
	Name         string    `json:"name"`
	PassageCount int       `json:"passage_count"`
	BuiltAt      time.Time `json:"built_at"`
}

func (s *DiskStore) Save(ctx context.Context, name string, passages []domain.ReferencePassage) error {
	bundle := filepath.Join(s.dir, name)
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		return fmt.Errorf("create index bundle: %w", err)
	}

	data, err := json.Marshal(passages)
	if err != nil {
		return fmt.Errorf("marshal passages: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bundle, passagesFile), data, 0o644); err != nil {
		return fmt.Errorf("write passages: %w", err)
	}

	m := manifest{Name: name, PassageCount: len(passages), BuiltAt: time.Now().UTC()}
	mdata, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bundle, manifestFile), mdata, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (s *DiskStore) Load(ctx context.Context, name string) ([]domain.ReferencePassage, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name, passagesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("read passages: %w", err)
	}

	var passages []domain.ReferencePassage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("corrupt index bundle %q: %w", name, err)
	}
	return passages, nil
}
