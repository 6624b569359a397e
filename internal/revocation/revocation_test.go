package revocation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestMemoryDenylistExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	list := NewMemoryDenylist()
	list.now = func() time.Time { return now }

	if err := list.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if revoked, _ := list.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatalf("expected jti-1 revoked")
	}
	if revoked, _ := list.IsRevoked(ctx, "jti-2"); revoked {
		t.Fatalf("expected jti-2 not revoked")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := list.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatalf("expected entry to lapse after ttl")
	}
}

func TestMemoryDenylistIgnoresExpiredTokens(t *testing.T) {
	list := NewMemoryDenylist()
	if err := list.Revoke(context.Background(), "jti-1", 0); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if revoked, _ := list.IsRevoked(context.Background(), "jti-1"); revoked {
		t.Fatalf("expected zero ttl to be a no-op")
	}
}

func TestRedisDenylist(t *testing.T) {
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
	list := NewRedisDenylist(client, "test_session")
	id := uuid.NewString()
	if err := list.Revoke(ctx, id, time.Minute); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	revoked, err := list.IsRevoked(ctx, id)
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v err=%v", revoked, err)
	}
}
