package grpc

import (
	"context"
	"errors"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"semaphore/booking/internal/docstore"
)

// ServiceName is the health entry for the portal itself. The empty name
// reports the overall server status.
const ServiceName = "booking.Portal"

type ProbeFunc func(ctx context.Context) error

// DocumentCheck reads one document from docs. A missing document still
// means the backend answered. Pass the backend itself, not a cache in
// front of it.
func DocumentCheck(docs docstore.Store, collection, key string) ProbeFunc {
	return func(ctx context.Context) error {
		_, err := docs.Get(ctx, collection, key)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return err
	}
}

func NewServer(hs *health.Server) *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

func NewHealth() *health.Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}

// Probe runs the probe once and records the result on the portal entry.
func Probe(ctx context.Context, hs *health.Server, probe ProbeFunc, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := probe(probeCtx); err != nil {
		log.Printf("health probe failed: %v", err)
		hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return true
}

func StartHealthProbe(ctx context.Context, hs *health.Server, probe ProbeFunc, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hs.Shutdown()
				return
			case <-ticker.C:
				Probe(ctx, hs, probe, 5*time.Second)
			}
		}
	}()
}
