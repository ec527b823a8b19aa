// Package postgres stores documents as JSONB rows of a single table keyed by
// (collection, id).
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/retailku/order-admin/pkg/database"
	"github.com/retailku/order-admin/pkg/storage"
)

// Schema creates the documents table.
const Schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

// Store is a storage.Gateway over PostgreSQL.
type Store struct {
	db *database.DB
}

// New wraps an open database handle.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

var (
	_ storage.Gateway = (*Store)(nil)
	_ storage.Seeder  = (*Store)(nil)
)

// EnsureSchema creates the documents table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", mapErr(err))
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context, collection string) ([]storage.Record, error) {
	query := `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, mapErr(err))
	}

	records := make([]storage.Record, 0, len(rows))
	for _, row := range rows {
		fields, err := storage.DecodeJSONFields(row.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, row.ID, err)
		}
		records = append(records, storage.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *Store) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, mapErr(err))
	}
	return requireAffected(result.RowsAffected())
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, mapErr(err))
	}
	return requireAffected(result.RowsAffected())
}

// Put inserts a document or replaces its data.
func (s *Store) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`

	if _, err := s.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, id, mapErr(err))
	}
	return nil
}

// PutAll writes documents of one collection in a single transaction.
func (s *Store) PutAll(ctx context.Context, collection string, records []storage.Record) error {
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`

	return s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			data, err := json.Marshal(rec.Fields)
			if err != nil {
				return fmt.Errorf("failed to encode %s/%s: %w", collection, rec.ID, err)
			}
			if _, err := tx.ExecContext(ctx, query, collection, rec.ID, data); err != nil {
				return fmt.Errorf("failed to put %s/%s: %w", collection, rec.ID, mapErr(err))
			}
		}
		return nil
	})
}

func (s *Store) Health(ctx context.Context) map[string]string {
	status := s.db.Health(ctx)
	status["driver"] = "postgres"
	return status
}

func (s *Store) Close() error {
	return s.db.Close()
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}
