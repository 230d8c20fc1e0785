package panel

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/machinesim/internal/history"
	"codeberg.org/mutker/machinesim/internal/logger"
	"codeberg.org/mutker/machinesim/internal/machine"
	"codeberg.org/mutker/machinesim/internal/telemetry"
)

// Config holds the panel's construction parameters.
type Config struct {
	// Seed for the engine's sensor RNG; 0 seeds from the clock.
	Seed int64
	// HistorySize caps the snapshot ring; 0 uses the ring's default.
	HistorySize int
}

// Panel is the driver that owns one long-lived engine instance. It
// performs the serialized Advance/Snapshot sequence each tick, keeps
// the bounded snapshot history, forwards ticks to telemetry, and
// implements reset by discarding the engine and creating a fresh one
// (the engine has no reset operation of its own).
type Panel struct {
	mu        sync.RWMutex
	cfg       Config
	engine    *machine.Engine
	ring      *history.Ring
	collector telemetry.Collector
	ticks     uint64
}

func New(cfg Config, collector telemetry.Collector) *Panel {
	return &Panel{
		cfg:       cfg,
		engine:    newEngine(cfg.Seed),
		ring:      history.NewRing(cfg.HistorySize),
		collector: collector,
	}
}

func newEngine(seed int64) *machine.Engine {
	if seed == 0 {
		return machine.New(nil)
	}
	return machine.New(rand.New(rand.NewSource(seed)))
}

// Start forwards the operator's start request to the current engine.
func (p *Panel) Start() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.engine.RequestStart()
	logger.Info().Msg("Operator requested START")
}

// Stop forwards the operator's stop request to the current engine.
func (p *Panel) Stop() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.engine.RequestStop()
	logger.Info().Msg("Operator requested STOP")
}

// Reset discards the engine and history wholesale and starts over from
// the initial idle state. A configured seed is reused so a reset
// replays the same drift; otherwise the new engine is clock-seeded.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine = newEngine(p.cfg.Seed)
	p.ring.Reset()
	p.ticks = 0
	logger.Info().Msg("Simulation reset to initial state")
}

// Tick advances the simulation by one step and returns the resulting
// snapshot. The snapshot is appended to the history and handed to the
// telemetry collector; a collector failure is reported but does not
// invalidate the tick.
func (p *Panel) Tick(ctx context.Context) (machine.Snapshot, error) {
	p.mu.Lock()
	engine := p.engine
	p.ticks++
	tick := p.ticks
	p.mu.Unlock()

	engine.Advance()
	snap := engine.Snapshot()
	now := time.Now()

	p.ring.Push(history.Entry{
		Time:     now,
		Tick:     tick,
		Snapshot: snap,
	})

	err := p.collector.Record(ctx, &telemetry.Point{
		Timestamp:   now,
		Tick:        tick,
		State:       snap.State.String(),
		Running:     snap.Running,
		Temperature: snap.Temperature,
		Voltage:     snap.Voltage,
		Speed:       snap.Speed,
		Message:     snap.Message,
	})

	return snap, err
}

// Status returns the current snapshot and the tick count since the
// last reset. Pure read.
func (p *Panel) Status() (machine.Snapshot, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.engine.Snapshot(), p.ticks
}

// History returns an oldest-first copy of the buffered snapshots.
func (p *Panel) History() []history.Entry {
	return p.ring.List()
}
