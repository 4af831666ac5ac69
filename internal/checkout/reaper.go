package checkout

import (
	"context"
	"log"
	"time"

	"github.com/model-map/greenCart/internal/store"
)

// Reaper deletes online orders that stayed unpaid past a TTL. Those are
// checkouts the customer abandoned and no webhook will ever settle. The TTL
// comes from configuration; a zero TTL disables reaping entirely.
type Reaper struct {
	orders   store.OrderStore
	ttl      time.Duration
	interval time.Duration
}

func NewReaper(orders store.OrderStore, ttl time.Duration) *Reaper {
	interval := ttl / 2
	if interval > 15*time.Minute {
		interval = 15 * time.Minute
	}
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Reaper{orders: orders, ttl: ttl, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping on a fixed interval.
func (r *Reaper) Run(ctx context.Context) {
	if r.ttl <= 0 {
		log.Println("[REAPER] [INFO] pending-order reaper disabled")
		return
	}

	log.Printf("[REAPER] [INFO] reaping pending online orders older than %s every %s", r.ttl, r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)
	reaped, err := r.orders.DeleteStalePending(ctx, cutoff)
	if err != nil {
		log.Printf("[REAPER] [ERROR] sweep failed: %v", err)
		return
	}
	if reaped > 0 {
		log.Printf("[REAPER] [INFO] removed %d stale pending orders", reaped)
	}
}
