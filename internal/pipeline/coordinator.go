package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/billing"
	"github.com/salimi-my/campus-parking-spot-booking/internal/ledger"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/repository"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// State tracks the coordinator's lifecycle.
type State string

const (
	StateInitializing State = "Initializing"
	StateRunning      State = "Running"
	StateStopping     State = "Stopping"
	StateStopped      State = "Stopped"
)

// StageLatencies holds the simulated processing cost of each stage.
type StageLatencies struct {
	Booking   time.Duration // validation work
	EntryGate time.Duration // gate actuation + scan
	ExitGate  time.Duration // gate actuation + scan
	Payment   time.Duration // gateway round-trip
	Recorder  time.Duration // disk flush
}

// Config assembles everything the coordinator needs to build the core.
type Config struct {
	ZoneCapacities map[string]int
	QueueCapacity  int
	Latencies      StageLatencies
	RecordPath     string
	CurrencyPrefix string
	PollInterval   time.Duration    // availability poller; 0 disables it
	Calculator     *billing.Calculator
	PublishSettled SettledPublisher // optional broker mirror
}

// runner is the part of a stage the coordinator interacts with.
type runner interface {
	Run(ctx context.Context)
	Started() <-chan struct{}
	Done() <-chan struct{}
	Name() string
}

// Coordinator owns the ledger, the queue fabric and the five stages.
// Start launches everything; Shutdown executes signal, cancel, then a
// bounded wait per stage so a wedged stage cannot hang the process.
type Coordinator struct {
	cfg Config
	bus *telemetry.Bus

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc

	led     *ledger.Ledger
	records *repository.RecordStore

	bookingQ *queue.Queue[*model.Booking]
	entryQ   *queue.Queue[*model.Booking]
	exitQ    *queue.Queue[*model.Booking]
	paymentQ *queue.Queue[*model.Booking]
	recordQ  *queue.Queue[string]

	stages []runner
	poller *ledger.Poller
}

// NewCoordinator builds an unstarted coordinator.
func NewCoordinator(cfg Config, bus *telemetry.Bus) *Coordinator {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 50
	}
	if cfg.Calculator == nil {
		cfg.Calculator = billing.NewCalculator(nil, nil, 0)
	}
	if cfg.CurrencyPrefix == "" {
		cfg.CurrencyPrefix = "RM"
	}
	return &Coordinator{cfg: cfg, bus: bus, state: StateInitializing}
}

// Start constructs the ledger, the five queues and the five stages,
// launches every stage plus the availability poller, and transitions to
// Running once all of them report started.  It fails without side
// effects if the record file cannot be opened, and fails if called in
// any state but Initializing.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInitializing {
		return fmt.Errorf("coordinator already %s", c.state)
	}

	records, err := repository.OpenRecordStore(c.cfg.RecordPath)
	if err != nil {
		return fmt.Errorf("start coordinator: %w", err)
	}
	c.records = records
	c.led = ledger.New(c.cfg.ZoneCapacities)

	n := c.cfg.QueueCapacity
	c.bookingQ = queue.NewBounded[*model.Booking](n)
	c.entryQ = queue.NewBounded[*model.Booking](n)
	c.exitQ = queue.NewBounded[*model.Booking](n)
	c.paymentQ = queue.NewBounded[*model.Booking](n)
	c.recordQ = queue.NewBounded[string](n)

	c.stages = []runner{
		NewBookingStage(c.bookingQ, c.led, c.bus, c.cfg.Latencies),
		NewEntryGate(c.entryQ, c.bus, c.cfg.Latencies),
		NewExitGate(c.exitQ, c.paymentQ, c.led, c.bus, c.cfg.Latencies),
		NewPaymentStage(c.paymentQ, c.recordQ, c.cfg.Calculator, c.cfg.CurrencyPrefix, c.cfg.PublishSettled, c.bus, c.cfg.Latencies),
		NewRecorderStage(c.recordQ, c.records, c.bus, c.cfg.Latencies),
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for _, st := range c.stages {
		go st.Run(runCtx)
	}
	if c.cfg.PollInterval > 0 {
		c.poller = ledger.NewPoller(c.led, c.cfg.PollInterval, c.bus)
		go c.poller.Run(runCtx)
	}

	// Running only once every stage has reported in.
	for _, st := range c.stages {
		<-st.Started()
	}
	c.state = StateRunning
	c.bus.Publishf("Coordinator", "all stages running")
	return nil
}

// Shutdown stops the pipeline: it cancels the shared context (the stop
// signal every stage observes, waking any stage parked in a take or a
// latency sleep), then waits up to timeoutPerStage for each stage in
// turn.  A stage that misses its deadline is reported and skipped, so
// shutdown completes in bounded time regardless of backlog.  The record
// store is closed once every stage has been waited on.  Calling
// Shutdown after the first Stopped transition is a no-op.
func (c *Coordinator) Shutdown(timeoutPerStage time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRunning:
		// proceed
	case StateInitializing:
		c.state = StateStopped
		return nil
	default:
		return nil
	}
	c.state = StateStopping
	c.bus.Publishf("Coordinator", "shutdown requested")
	c.cancel()

	for _, st := range c.stages {
		c.waitFor(st.Name(), st.Done(), timeoutPerStage)
	}
	if c.poller != nil {
		c.waitFor("ZoneMonitor", c.poller.Done(), timeoutPerStage)
	}

	err := c.records.Close()
	c.state = StateStopped
	c.bus.Publishf("Coordinator", "shutdown complete")
	return err
}

func (c *Coordinator) waitFor(name string, done <-chan struct{}, timeout time.Duration) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		c.bus.Publishf("Coordinator", "%s did not terminate cleanly", name)
	}
}

// State returns the coordinator's current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ledger exposes the zone ledger for availability reads.
func (c *Coordinator) Ledger() *ledger.Ledger { return c.led }

// Records exposes the durable record store for boundary reads.
func (c *Coordinator) Records() *repository.RecordStore { return c.records }

// SubmitBooking offers a new booking to the reservation stage without
// blocking.  It reports false when the queue is full; the caller
// decides whether to retry.
func (c *Coordinator) SubmitBooking(b *model.Booking) bool { return c.bookingQ.TryPut(b) }

// TriggerEntry offers a booking to the entry gate without blocking.
func (c *Coordinator) TriggerEntry(b *model.Booking) bool { return c.entryQ.TryPut(b) }

// TriggerExit offers a booking to the exit gate without blocking.
func (c *Coordinator) TriggerExit(b *model.Booking) bool { return c.exitQ.TryPut(b) }
