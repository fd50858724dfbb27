package index

import (
	"context"
	"fmt"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PostgresStore persists index passages in a pgvector-backed table keyed by
// index name, for deployments where the bundle should live next to other
// relational data instead of on local disk.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the passages table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reference_passages (
			id UUID PRIMARY KEY,
			index_name TEXT NOT NULL,
			document_id TEXT NOT NULL,
			seq INT NOT NULL,
			content TEXT NOT NULL,
			embedding VECTOR
		)`)
	if err != nil {
		return fmt.Errorf("create passages table: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS reference_passages_index_name_idx ON reference_passages (index_name)`)
	if err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, name string, passages []domain.ReferencePassage) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM reference_passages WHERE index_name = $1`, name); err != nil {
		return fmt.Errorf("clear previous index: %w", err)
	}

	for _, p := range passages {
		vec := pgvector.NewVector(p.Embedding)
		_, err := tx.Exec(ctx,
			`INSERT INTO reference_passages (id, index_name, document_id, seq, content, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, name, p.DocumentID, p.Seq, p.Text, vec,
		)
		if err != nil {
			return fmt.Errorf("insert passage %s: %w", p.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Load(ctx context.Context, name string) ([]domain.ReferencePassage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, document_id, seq, content, embedding
		 FROM reference_passages WHERE index_name = $1
		 ORDER BY document_id, seq`, name)
	if err != nil {
		return nil, fmt.Errorf("query passages: %w", err)
	}
	defer rows.Close()

	var passages []domain.ReferencePassage
	for rows.Next() {
		var p domain.ReferencePassage
		var vec pgvector.Vector
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Seq, &p.Text, &vec); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		p.Embedding = vec.Slice()
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passages: %w", err)
	}
	if len(passages) == 0 {
		return nil, ErrIndexNotFound
	}
	return passages, nil
}
