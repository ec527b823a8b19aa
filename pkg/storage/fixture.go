package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadFixture seeds a backend from a JSON file shaped as
//
//	{"orders": [{"id": "o1", "status": "..."}], "user-info": [...]}
//
// Each document's "id" becomes the record id and is removed from its fields.
// Collections are seeded in name order, documents in file order.
func LoadFixture(ctx context.Context, path string, seeder Seeder) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return SeedJSON(ctx, data, seeder)
}

// SeedJSON is LoadFixture over an in-memory document.
func SeedJSON(ctx context.Context, data []byte, seeder Seeder) (int, error) {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse fixture: %w", err)
	}

	collections := make([]string, 0, len(raw))
	for name := range raw {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	count := 0
	for _, collection := range collections {
		for i, doc := range raw[collection] {
			fields, err := DecodeJSONFields(doc)
			if err != nil {
				return count, fmt.Errorf("fixture %s[%d]: %w", collection, i, err)
			}

			id, _ := fields["id"].(string)
			if id == "" {
				return count, fmt.Errorf("fixture %s[%d]: missing string id", collection, i)
			}
			delete(fields, "id")

			if err := seeder.Put(ctx, collection, id, fields); err != nil {
				return count, fmt.Errorf("fixture %s/%s: %w", collection, id, err)
			}
			count++
		}
	}

	return count, nil
}
