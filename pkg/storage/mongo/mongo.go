// Package mongo is a storage.Gateway over MongoDB. A document's _id is the
// record id; string ids and ObjectIDs are both accepted.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/retailku/order-admin/pkg/config"
	"github.com/retailku/order-admin/pkg/storage"
)

// Store is a storage.Gateway over one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	_ storage.Gateway = (*Store)(nil)
	_ storage.Seeder  = (*Store)(nil)
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) ListAll(ctx context.Context, collection string) ([]storage.Record, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	records := make([]storage.Record, 0)
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		records = append(records, toRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return records, nil
}

func (s *Store) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Put upserts a document under a string _id.
func (s *Store) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	doc := bson.M{"_id": id}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Health(ctx context.Context) map[string]string {
	status := map[string]string{"status": "up", "driver": "mongo"}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}
	return status
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// idFilter matches a document whose _id is either the string id or the
// ObjectID it encodes.
func idFilter(id string) bson.M {
	candidates := bson.A{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, oid)
	}
	return bson.M{"_id": bson.M{"$in": candidates}}
}

func toRecord(doc bson.M) storage.Record {
	id := idString(doc["_id"])
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		fields[k] = normalize(v)
	}
	return storage.Record{ID: id, Fields: fields}
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// normalize maps BSON values onto the storage package's canonical types.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return t.String()
		}
		f, _ := d.Float64()
		return f
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return storage.Normalize(v)
	}
}
