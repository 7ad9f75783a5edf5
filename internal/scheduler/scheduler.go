// Package scheduler runs the periodic reset of abandoned item quantities.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// QuantityResetter is implemented by services.ItemService.
type QuantityResetter interface {
	ResetStaleQuantities(ctx context.Context, olderThan time.Duration) (int64, error)
}

const jobTimeout = 30 * time.Second

type Scheduler struct {
	cron  *cron.Cron
	after time.Duration
	items QuantityResetter
}

// New parses spec (standard five-field cron or descriptors such as
// "@every 1m") and registers the stale quantity reset.
func New(spec string, after time.Duration, items QuantityResetter) (*Scheduler, error) {
	if after <= 0 {
		return nil, fmt.Errorf("reset window must be positive, got %s", after)
	}
	s := &Scheduler{
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		after: after,
		items: items,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("[Scheduler] Resetting quantities idle for more than %s", s.after)
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single reset pass and returns the rows changed.
func (s *Scheduler) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := s.items.ResetStaleQuantities(ctx, s.after)
	if err != nil {
		log.Printf("[Scheduler] Quantity reset failed: %v", err)
		return 0
	}
	return n
}
