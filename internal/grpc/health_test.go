package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"semaphore/booking/internal/docstore"
)

func TestProbeUpdatesStatus(t *testing.T) {
	hs := NewHealth()
	ctx := context.Background()

	if ok := Probe(ctx, hs, func(context.Context) error { return errors.New("store down") }, time.Second); ok {
		t.Fatalf("expected failing probe")
	}
	resp, err := hs.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", resp.GetStatus())
	}

	if ok := Probe(ctx, hs, func(context.Context) error { return nil }, time.Second); !ok {
		t.Fatalf("expected passing probe")
	}
	resp, err = hs.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}
}

func TestProbeHonoursTimeout(t *testing.T) {
	hs := NewHealth()
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	if ok := Probe(context.Background(), hs, slow, 10*time.Millisecond); ok {
		t.Fatalf("expected timed out probe to fail")
	}
}

type downStore struct{}

func (downStore) Get(ctx context.Context, collection, key string) (docstore.Document, error) {
	return nil, errors.New("connection refused")
}

func (downStore) Set(ctx context.Context, collection, key string, doc docstore.Document) error {
	return errors.New("connection refused")
}

func TestDocumentCheck(t *testing.T) {
	ctx := context.Background()
	if err := DocumentCheck(docstore.NewMemory(), "settings", "reminder")(ctx); err != nil {
		t.Fatalf("expected missing document to pass, got %v", err)
	}

	hs := NewHealth()
	if ok := Probe(ctx, hs, DocumentCheck(downStore{}, "settings", "reminder"), time.Second); ok {
		t.Fatalf("expected unreachable backend to fail")
	}
	resp, err := hs.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", resp.GetStatus())
	}
}
