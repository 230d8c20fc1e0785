package machine

// updateSensors refreshes the readings for the current (pre-transition)
// state. Speed and voltage are recomputed outright each tick and carry
// no memory of the previous value; temperature accumulates a per-tick
// delta and is the only stateful reading.
func (e *Engine) updateSensors() {
	switch e.state {
	case StateActive:
		e.speed = e.normal(1500, 5) // nominal 1500 RPM
		e.voltage = e.normal(240, 0.5)
		e.temperature += e.uniform(0.5, 1.5)
	case StateOverheating:
		// Speed turns erratic and the voltage fluctuates under stress.
		e.speed = e.normal(1550, 20)
		e.voltage = e.normal(240, 2)
		e.temperature += e.uniform(0.1, 0.5)
	case StateRecovery:
		// Load is shed: speed drops and the voltage stabilizes while
		// the machine actively cools.
		e.speed = e.normal(300, 3)
		e.voltage = e.normal(242, 0.2)
		e.temperature -= e.uniform(1.0, 2.0)
	case StateIdle:
		e.speed = 0
		e.voltage = 0
		// Passive cooldown, clamped so the reading never dips below
		// ambient.
		if e.temperature > AmbientTemperature {
			e.temperature -= e.uniform(0.2, 0.5)
		}
		if e.temperature < AmbientTemperature {
			e.temperature = AmbientTemperature
		}
	}
}

func (e *Engine) normal(mean, stddev float64) float64 {
	return mean + e.rng.NormFloat64()*stddev
}

func (e *Engine) uniform(low, high float64) float64 {
	return low + e.rng.Float64()*(high-low)
}
