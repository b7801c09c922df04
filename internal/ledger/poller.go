package ledger

import (
	"context"
	"time"
)

// Announcer receives one availability line per zone per poll interval.
// The telemetry bus satisfies this.
type Announcer interface {
	Publishf(stage, format string, args ...any)
}

// Poller periodically reads the ledger and announces per-zone
// availability.  It only reads; spot allocation never depends on it, so
// a slow or stopped poller cannot stall a booking.
type Poller struct {
	ledger   *Ledger
	interval time.Duration
	sink     Announcer
	done     chan struct{}
}

// NewPoller builds a poller over the given ledger.  Intervals below
// 100ms are clamped to keep the loop from spinning.
func NewPoller(l *Ledger, interval time.Duration, sink Announcer) *Poller {
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return &Poller{ledger: l, interval: interval, sink: sink, done: make(chan struct{})}
}

// Run loops until the context is cancelled, announcing availability for
// every zone once per interval.  It closes Done on exit.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.done)
	p.sink.Publishf("ZoneMonitor", "started - polling availability every %s", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.sink.Publishf("ZoneMonitor", "stopped")
			return
		case <-ticker.C:
			for _, zs := range p.ledger.Snapshot() {
				p.sink.Publishf("ZoneMonitor", "Zone %s - %d/%d spots available",
					zs.Zone, zs.Available, zs.Capacity)
			}
		}
	}
}

// Done is closed once Run has returned.
func (p *Poller) Done() <-chan struct{} { return p.done }
