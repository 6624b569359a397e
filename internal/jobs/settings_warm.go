package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"semaphore/booking/internal/config"
	"semaphore/booking/internal/repository"
)

const ReminderSetting = "reminder"

// StartSettingsWarmJob keeps the shared settings hot in the document cache.
// Without a cache every request fetches anyway, so the job does not run.
func StartSettingsWarmJob(ctx context.Context, cfg config.Config, store *repository.Store) bool {
	if !cfg.CacheEnabled() {
		return false
	}
	if store == nil {
		log.Printf("settings warm job disabled: store not configured")
		return false
	}
	interval := cfg.SettingsWarmInterval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := 10 * time.Second
	if timeout > interval {
		timeout = interval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				count, err := WarmSettings(tickCtx, store)
				cancel()
				if err != nil {
					log.Printf("settings warm job error: %v", err)
					continue
				}
				log.Printf("settings warm job refreshed %d offices", count)
			}
		}
	}()
	return true
}

func WarmSettings(ctx context.Context, store *repository.Store) (int, error) {
	offices, err := store.OfficeOptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("office list: %w", err)
	}
	if _, err := store.Setting(ctx, ReminderSetting); err != nil {
		return len(offices), fmt.Errorf("reminder: %w", err)
	}
	return len(offices), nil
}
