package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"propdash/internal/logger"
)

// RefreshAll runs every pipeline concurrently and waits for them. One
// pipeline failing never stops the others; the first real error is
// returned after all have finished.
func (d *Dashboard) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	for _, dataset := range d.order {
		g.Go(func() error {
			err := d.Run(ctx, dataset)
			if errors.Is(err, ErrSuperseded) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// Driver refreshes the dashboard once at start and then on every tick
type Driver struct {
	dash     *Dashboard
	interval time.Duration
	log      *logger.Logger

	// newTicker is replaced in tests
	newTicker func(d time.Duration) (<-chan time.Time, func())

	inflight sync.WaitGroup
}

// NewDriver creates a driver refreshing dash every interval
func NewDriver(dash *Dashboard, interval time.Duration) *Driver {
	return &Driver{
		dash:     dash,
		interval: interval,
		log:      logger.Component("refresh"),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Interval returns the refresh period
func (dr *Driver) Interval() time.Duration {
	return dr.interval
}

// Trigger starts a full refresh without waiting for it
func (dr *Driver) Trigger(ctx context.Context, reason string) {
	dr.inflight.Add(1)
	go func() {
		defer dr.inflight.Done()
		start := time.Now()
		if err := dr.dash.RefreshAll(ctx); err != nil {
			dr.log.Warn("Refresh finished with errors", logger.Fields{
				"reason": reason,
				"error":  err.Error(),
			})
			return
		}
		dr.log.Debug("Refresh finished", logger.Fields{
			"reason":   reason,
			"duration": time.Since(start).String(),
		})
	}()
}

// Run triggers a refresh immediately and then every interval until ctx is
// done. Ticks never wait for earlier refreshes to finish.
func (dr *Driver) Run(ctx context.Context) {
	dr.log.Infof("Refreshing %d pipelines every %s", len(dr.dash.order), dr.interval)
	dr.Trigger(ctx, "start")

	ticks, stop := dr.newTicker(dr.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			dr.Trigger(ctx, "interval")
		}
	}
}

// Wait blocks until every triggered refresh has returned
func (dr *Driver) Wait() {
	dr.inflight.Wait()
}
