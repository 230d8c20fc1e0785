package telemetry

import (
	"context"
	"time"
)

// Collector persists one engine snapshot per simulation tick.
type Collector interface {
	Record(ctx context.Context, point *Point) error
	Close() error
}

// Point is the per-tick record written to storage.
type Point struct {
	Timestamp   time.Time
	Tick        uint64
	State       string
	Running     bool
	Temperature float64
	Voltage     float64
	Speed       float64
	Message     string
}
