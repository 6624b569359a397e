package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestMemoryGetMissing(t *testing.T) {
	store := NewMemory()
	if _, err := store.Get(context.Background(), "settings", "reminder"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySetGetIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	doc := Document{"value": "bring your ID", "tags": []interface{}{"a"}}
	if err := store.Set(ctx, "settings", "reminder", doc); err != nil {
		t.Fatalf("set error: %v", err)
	}
	doc["value"] = "changed"

	got, err := store.Get(ctx, "settings", "reminder")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.String("value") != "bring your ID" {
		t.Fatalf("expected stored copy, got %q", got.String("value"))
	}
	got["value"] = "mutated"
	again, _ := store.Get(ctx, "settings", "reminder")
	if again.String("value") != "bring your ID" {
		t.Fatalf("expected store to be unaffected by caller mutation")
	}
}

func TestDocumentAccessors(t *testing.T) {
	doc := Document{
		"value": "x",
		"count": float64(3),
		"offices": []interface{}{
			map[string]interface{}{"name": "Registrar"},
			"not-a-map",
			map[string]interface{}{"name": "Cashier"},
		},
	}
	if doc.String("count") != "" {
		t.Fatalf("expected non-string field to read as empty")
	}
	if doc.String("missing") != "" {
		t.Fatalf("expected missing field to read as empty")
	}
	options := doc.Slice("offices")
	if len(options) != 2 || options[1].String("name") != "Cashier" {
		t.Fatalf("unexpected slice %v", options)
	}
	if doc.Slice("value") != nil {
		t.Fatalf("expected nil for non-list field")
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	seed := `{"users": {"u1": {"role": "student"}}, "settings": {"reminder": {"value": "hi"}}}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	store := NewMemory()
	if err := store.LoadSeedFile(context.Background(), path); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	doc, err := store.Get(context.Background(), "users", "u1")
	if err != nil || doc.String("role") != "student" {
		t.Fatalf("expected seeded user, got %v err=%v", doc, err)
	}
}

type blockingStore struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Get(ctx context.Context, collection, key string) (Document, error) {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	<-b.release
	return Document{"value": key}, nil
}

func (b *blockingStore) Set(ctx context.Context, collection, key string, doc Document) error {
	return nil
}

func TestCachedCollapsesConcurrentReads(t *testing.T) {
	backend := &blockingStore{started: make(chan struct{}), release: make(chan struct{})}
	cached := NewCached(backend, nil, 0)

	const readers = 8
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := cached.Get(context.Background(), "settings", "reminder")
			if err == nil && doc.String("value") != "reminder" {
				err = errors.New("unexpected document")
			}
			errs <- err
		}()
	}

	<-backend.started
	time.Sleep(50 * time.Millisecond)
	close(backend.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("reader error: %v", err)
		}
	}
	if calls := backend.calls.Load(); calls != 1 {
		t.Fatalf("expected one backend fetch, got %d", calls)
	}
}

func TestCachedWaiterHonoursContext(t *testing.T) {
	backend := &blockingStore{started: make(chan struct{}), release: make(chan struct{})}
	defer close(backend.release)
	cached := NewCached(backend, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cached.Get(ctx, "settings", "reminder")
		done <- err
	}()
	<-backend.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter did not return after cancel")
	}
}

func TestCachedPassesNotFound(t *testing.T) {
	cached := NewCached(NewMemory(), nil, time.Minute)
	if _, err := cached.Get(context.Background(), "students", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCachedSkipsUncachedCollections(t *testing.T) {
	backend := &blockingStore{started: make(chan struct{}), release: make(chan struct{})}
	cached := NewCached(backend, nil, time.Minute, "officeAccounts")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cached.Get(context.Background(), "officeAccounts", "reg1"); err != nil {
				t.Errorf("get error: %v", err)
			}
		}()
	}

	deadline := time.Now().Add(time.Second)
	for backend.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	close(backend.release)
	wg.Wait()

	if calls := backend.calls.Load(); calls != 2 {
		t.Fatalf("expected every read to reach the backend, got %d fetches", calls)
	}
}

func TestCachedRedisServesFreshAccounts(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run")
	}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	backend := NewMemory()
	cached := NewCached(backend, client, time.Minute, "officeAccounts")
	username := uuid.NewString()
	defer client.Del(ctx, documentCacheKey("officeAccounts", username), documentCacheKey("settings", username))

	if err := backend.Set(ctx, "officeAccounts", username, Document{"passwordHash": "old"}); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if _, err := cached.Get(ctx, "officeAccounts", username); err != nil {
		t.Fatalf("get error: %v", err)
	}
	// Another process rewrites the account without going through the cache.
	if err := backend.Set(ctx, "officeAccounts", username, Document{"passwordHash": "new"}); err != nil {
		t.Fatalf("update error: %v", err)
	}
	doc, err := cached.Get(ctx, "officeAccounts", username)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got := doc.String("passwordHash"); got != "new" {
		t.Fatalf("expected fresh password hash, got %q", got)
	}

	if err := backend.Set(ctx, "settings", username, Document{"value": "old"}); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if _, err := cached.Get(ctx, "settings", username); err != nil {
		t.Fatalf("get error: %v", err)
	}
	if err := backend.Set(ctx, "settings", username, Document{"value": "new"}); err != nil {
		t.Fatalf("update error: %v", err)
	}
	doc, err = cached.Get(ctx, "settings", username)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got := doc.String("value"); got != "old" {
		t.Fatalf("expected cached setting until ttl, got %q", got)
	}
}
