package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]Document)}
}

func (m *Memory) Get(ctx context.Context, collection, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc)
}

func (m *Memory) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := cloneDocument(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]Document)
	}
	m.docs[collection][key] = stored
	return nil
}

// LoadSeedFile fills the store from a JSON file shaped {collection: {key: {field: value}}}.
func (m *Memory) LoadSeedFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed map[string]map[string]Document
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for collection, docs := range seed {
		for key, doc := range docs {
			if err := m.Set(ctx, collection, key, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// cloneDocument round-trips through JSON so callers never share nested slices
// with the store and values have the same shapes the remote backends return.
func cloneDocument(doc Document) (Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
