package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/domain/model"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS arena_documents (
	key        TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps one JSONB document per arena.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create arena_documents: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load reads every arena document in position order.
func (s *PostgresStore) Load(ctx context.Context) (model.Collection, error) {
	rows, err := s.pool.Query(ctx, `SELECT document FROM arena_documents ORDER BY position, key`)
	if err != nil {
		return model.Collection{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer rows.Close()

	var c model.Collection
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return model.Collection{}, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		a, err := codec.DecodeArena(doc)
		if err != nil {
			return model.Collection{}, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		c.Arenas = append(c.Arenas, a)
	}
	if err := rows.Err(); err != nil {
		return model.Collection{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return c, nil
}

// Save upserts every arena and removes arenas no longer present.
func (s *PostgresStore) Save(ctx context.Context, c model.Collection) error {
	keys := make([]string, len(c.Arenas))
	docs := make([][]byte, len(c.Arenas))
	for i, a := range c.Arenas {
		doc, err := codec.EncodeArena(a)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
		keys[i], docs[i] = a.Key, doc
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM arena_documents WHERE NOT (key = ANY($1))`, keys); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for i := range keys {
			batch.Queue(`
				INSERT INTO arena_documents (key, position, document, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (key) DO UPDATE
				SET position = EXCLUDED.position, document = EXCLUDED.document, updated_at = now()`,
				keys[i], i, string(docs[i]))
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
