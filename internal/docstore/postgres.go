package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
  collection TEXT NOT NULL,
  key        TEXT NOT NULL,
  data       JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (collection, key)
)`

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, documentsSchema)
	return err
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (Document, error) {
	var raw []byte
	row := p.pool.QueryRow(ctx, `
    SELECT data
    FROM documents
    WHERE collection = $1 AND key = $2
  `, collection, key)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return doc, nil
}

func (p *Postgres) Set(ctx context.Context, collection, key string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
    INSERT INTO documents (collection, key, data, updated_at)
    VALUES ($1, $2, $3, now())
    ON CONFLICT (collection, key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
  `, collection, key, string(raw))
	return err
}
