package docstore

import (
	"context"
	"fmt"
	"log"

	"semaphore/booking/internal/config"
	"semaphore/booking/internal/db"
)

// Open connects the backend named by DOCUMENT_BACKEND. The returned func
// releases it.
func Open(ctx context.Context, cfg config.Config) (Store, func(), error) {
	switch cfg.DocumentBackend {
	case "firestore":
		fs, err := NewFirestore(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {
			if err := fs.Close(); err != nil {
				log.Printf("firestore close error: %v", err)
			}
		}, nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	case "memory":
		mem := NewMemory()
		if cfg.SeedFile != "" {
			if err := mem.LoadSeedFile(ctx, cfg.SeedFile); err != nil {
				return nil, nil, err
			}
			log.Printf("memory document store seeded from %s", cfg.SeedFile)
		}
		return mem, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown DOCUMENT_BACKEND %q", cfg.DocumentBackend)
	}
}
