// Package storage defines the document store boundary the admin view talks
// to. Backends live in the subpackages and all return values normalized to
// plain Go types so callers never see driver-specific representations.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"
)

// ErrNotFound is returned by UpdatePartial and DeleteByID when no document
// with the given id exists in the collection.
var ErrNotFound = errors.New("document not found")

// Record is one document of a collection.
type Record struct {
	ID     string
	Fields map[string]any
}

// Gateway is the document store used by the admin view.
type Gateway interface {
	// ListAll returns every document of the collection in store order.
	ListAll(ctx context.Context, collection string) ([]Record, error)
	// UpdatePartial merges fields into an existing document.
	UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error
	// DeleteByID removes a document.
	DeleteByID(ctx context.Context, collection, id string) error
	// Health reports backend status under "status" ("up" or "down").
	Health(ctx context.Context) map[string]string
	Close() error
}

// Seeder is implemented by backends that can be populated from a fixture.
type Seeder interface {
	Put(ctx context.Context, collection, id string, fields map[string]any) error
}

// Normalize converts decoded values into the canonical set used across
// backends: string, bool, int64, float64, time.Time, []any, map[string]any
// and nil. Unknown types pass through unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return float64(t)
		}
		return int64(t)
	case float32:
		return float64(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return *t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		return NormalizeFields(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeFields(e)
		}
		return out
	default:
		return v
	}
}

// NormalizeFields returns a normalized deep copy of a document's fields.
func NormalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = Normalize(v)
	}
	return out
}

// DecodeJSONFields decodes a JSON object keeping integers exact.
func DecodeJSONFields(data []byte) (map[string]any, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return NormalizeFields(fields), nil
}
