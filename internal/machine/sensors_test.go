package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveSensorDistributions(t *testing.T) {
	e := newTestEngine(11)
	e.state = StateActive
	e.running = true

	prev := e.temperature
	for tick := 0; tick < 200; tick++ {
		e.updateSensors()

		// 6-sigma bounds on the nominal distributions.
		assert.InDelta(t, 1500, e.speed, 30, "tick %d", tick)
		assert.InDelta(t, 240, e.voltage, 3, "tick %d", tick)

		delta := e.temperature - prev
		assert.GreaterOrEqual(t, delta, 0.5, "tick %d", tick)
		assert.Less(t, delta, 1.5, "tick %d", tick)
		prev = e.temperature
	}
}

func TestOverheatingSensorDistributions(t *testing.T) {
	e := newTestEngine(12)
	e.state = StateOverheating
	e.temperature = 85

	prev := e.temperature
	for tick := 0; tick < 200; tick++ {
		e.updateSensors()

		assert.InDelta(t, 1550, e.speed, 120, "tick %d", tick)
		assert.InDelta(t, 240, e.voltage, 12, "tick %d", tick)

		delta := e.temperature - prev
		assert.GreaterOrEqual(t, delta, 0.1, "tick %d", tick)
		assert.Less(t, delta, 0.5, "tick %d", tick)
		prev = e.temperature
	}
}

func TestRecoverySensorsCoolDown(t *testing.T) {
	e := newTestEngine(13)
	e.state = StateRecovery
	e.temperature = 100

	prev := e.temperature
	for tick := 0; tick < 20; tick++ {
		e.updateSensors()

		assert.InDelta(t, 300, e.speed, 18, "tick %d", tick)
		assert.InDelta(t, 242, e.voltage, 1.2, "tick %d", tick)

		drop := prev - e.temperature
		assert.GreaterOrEqual(t, drop, 1.0, "tick %d", tick)
		assert.Less(t, drop, 2.0, "tick %d", tick)
		prev = e.temperature
	}
}

func TestIdleSensorsUnloaded(t *testing.T) {
	e := newTestEngine(14)
	e.speed = 1500
	e.voltage = 240
	e.temperature = 30

	e.updateSensors()

	assert.Zero(t, e.speed, "no load implies zero speed")
	assert.Zero(t, e.voltage)
	assert.Less(t, e.temperature, 30.0)
	assert.GreaterOrEqual(t, e.temperature, AmbientTemperature)
}

func TestTemperatureContinuityAcrossStates(t *testing.T) {
	e := newTestEngine(15)
	e.state = StateActive
	e.running = true
	e.temperature = 50

	e.updateSensors()
	heated := e.temperature

	// Switching state must not reset the accumulated temperature.
	e.state = StateRecovery
	e.updateSensors()
	assert.Less(t, e.temperature, heated)
	assert.Greater(t, e.temperature, heated-2.0)
}
