// Package docstore reads and writes schemaless documents addressed by
// collection name and key. Backends: Firestore, Postgres (jsonb) and memory.
package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

type Store interface {
	Get(ctx context.Context, collection, key string) (Document, error)
	Set(ctx context.Context, collection, key string, doc Document) error
}

type Document map[string]interface{}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(field string) string {
	value, _ := d[field].(string)
	return value
}

// Slice returns the field as a list of field maps. Entries that are not maps are skipped.
func (d Document) Slice(field string) []Document {
	raw, ok := d[field].([]interface{})
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case map[string]interface{}:
			out = append(out, Document(v))
		case Document:
			out = append(out, v)
		}
	}
	return out
}
