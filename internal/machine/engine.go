package machine

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// AmbientTemperature is the resting temperature the machine cools
	// down to while idle.
	AmbientTemperature = 25.0
	// OverheatThreshold is the temperature above which an active
	// machine trips into the overheating state.
	OverheatThreshold = 80.0
	// RecoveryThreshold is the temperature a recovering machine must
	// cool below before it returns to idle.
	RecoveryThreshold = 40.0

	// Consecutive overheating ticks tolerated before load is reduced.
	overheatTickLimit = 5

	initialMessage = "System is idle. Ready to start."
)

// Snapshot is an immutable view of the engine as of the last Advance
// call (or the initial state if Advance was never called).
type Snapshot struct {
	State       State   `json:"state"`
	Running     bool    `json:"running"`
	Temperature float64 `json:"temperature"`
	Voltage     float64 `json:"voltage"`
	Speed       float64 `json:"speed"`
	Message     string  `json:"message"`
}

// Engine owns the authoritative machine state: the current State, the
// operator's running intent, the sensor readings and the overheat
// debounce counter. All fields are coupled by the transition rules, so
// a single mutex guards every operation. Commands may arrive from a
// separate goroutine between ticks; their effect is applied atomically
// by the next Advance.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	state         State
	running       bool
	temperature   float64
	voltage       float64
	speed         float64
	message       string
	overheatTicks int
}

// New creates an engine in the idle state. The rng drives sensor
// drift; passing a seeded source makes every tick reproducible. A nil
// rng falls back to a clock-seeded source.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		rng:         rng,
		state:       StateIdle,
		temperature: AmbientTemperature,
		message:     initialMessage,
	}
}

// RequestStart marks the operator's intent to run the machine. It only
// has effect while the machine is idle; in any other state it is
// silently ignored.
func (e *Engine) RequestStart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		e.running = true
	}
}

// RequestStop clears the running flag regardless of state. The state
// itself changes on the next Advance.
func (e *Engine) RequestStop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.running = false
}

// Advance runs one simulation tick: sensors are refreshed for the
// pre-transition state, then the transition table is evaluated against
// the refreshed readings. At most one transition is committed per
// tick. Advance never fails; every guard combination has a defined
// outcome, including the implicit "stay" branch.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.updateSensors()
	e.evaluateTransitions()
}

// evaluateTransitions applies the transition table for the current
// state. Guards are checked in order and the first match wins; a stop
// request always takes priority over sensor conditions.
func (e *Engine) evaluateTransitions() {
	switch e.state {
	case StateIdle:
		if e.running {
			e.state = StateActive
			e.message = "System active and stable."
		}
	case StateActive:
		switch {
		case !e.running:
			e.state = StateIdle
			e.message = "System shutting down."
		case e.temperature > OverheatThreshold:
			e.state = StateOverheating
			e.overheatTicks = 0
			e.message = "CRITICAL: Overheating detected! High temp."
		}
	case StateOverheating:
		if !e.running {
			// Emergency stop discards the debounce counter.
			e.state = StateIdle
			e.message = "Emergency stop initiated."
			break
		}
		e.overheatTicks++
		if e.overheatTicks > overheatTickLimit {
			e.state = StateRecovery
			e.message = "System in recovery mode. Reducing load."
		}
	case StateRecovery:
		switch {
		case !e.running:
			e.state = StateIdle
			e.message = "Shutdown during recovery."
		case e.temperature < RecoveryThreshold:
			// The only transition that clears running without an
			// operator command: a cooled-down machine parks itself.
			e.state = StateIdle
			e.running = false
			e.message = "Recovery complete. System idle. Ready for restart."
		}
	}
}

// Snapshot returns the current view. Pure read, no side effects.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		State:       e.state,
		Running:     e.running,
		Temperature: e.temperature,
		Voltage:     e.voltage,
		Speed:       e.speed,
		Message:     e.message,
	}
}
