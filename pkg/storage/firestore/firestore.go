// Package firestore is a storage.Gateway over Cloud Firestore. Setting
// FIRESTORE_EMULATOR_HOST points the client at a local emulator.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retailku/order-admin/pkg/config"
	"github.com/retailku/order-admin/pkg/storage"
)

// Store is a storage.Gateway over one Firestore database.
type Store struct {
	client *firestore.Client
}

var (
	_ storage.Gateway = (*Store)(nil)
	_ storage.Seeder  = (*Store)(nil)
)

// Connect creates a Firestore client for the configured project.
func Connect(ctx context.Context, cfg *config.FirestoreConfig) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) ListAll(ctx context.Context, collection string) ([]storage.Record, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	records := make([]storage.Record, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", collection, err)
		}
		records = append(records, toRecord(snap.Ref.ID, snap.Data()))
	}
	return records, nil
}

func (s *Store) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return mapErr(err, "update", collection, id)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return mapErr(err, "delete", collection, id)
	}
	return nil
}

// Put creates or overwrites a document.
func (s *Store) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, fields); err != nil {
		return mapErr(err, "put", collection, id)
	}
	return nil
}

func (s *Store) Health(ctx context.Context) map[string]string {
	result := map[string]string{"status": "up", "driver": "firestore"}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := s.client.Collections(ctx).Next(); err != nil && !errors.Is(err, iterator.Done) {
		result["status"] = "down"
		result["error"] = err.Error()
	}
	return result
}

func (s *Store) Close() error {
	return s.client.Close()
}

func mapErr(err error, op, collection, id string) error {
	if status.Code(err) == codes.NotFound {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to %s %s/%s: %w", op, collection, id, err)
}

func toRecord(id string, data map[string]any) storage.Record {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = normalize(v)
	}
	return storage.Record{ID: id, Fields: fields}
}

// normalize maps Firestore values onto the storage package's canonical
// types. Document references become their full path.
func normalize(v any) any {
	switch t := v.(type) {
	case *firestore.DocumentRef:
		if t == nil {
			return nil
		}
		return t.Path
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return storage.Normalize(v)
	}
}
