package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// LoadDocuments reads every .md and .txt file under dir, recursively. The
// relative path becomes the document ID.
func LoadDocuments(dir string) ([]domain.Document, error) {
	var docs []domain.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, domain.Document{ID: rel, Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk data dir %q: %w", dir, err)
	}
	return docs, nil
}
