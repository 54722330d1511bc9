package core

import "math"

// MultiplierConfig holds the decay parameters of the score multiplier.
type MultiplierConfig struct {
	DecayTime float64 // Timer value after every change
	DecayRate float64 // Timer decrement per second
	Max       int
}

// Multiplier is the decaying score amplifier. Its value stays in [1, Max];
// every change restarts the decay timer, and an expired timer drops the
// value by one tier.
type Multiplier struct {
	cfg        MultiplierConfig
	value      int
	decayTimer float64
	sink       EventSink
}

// NewMultiplier creates a multiplier at value 1 with a stopped timer.
func NewMultiplier(cfg MultiplierConfig, sink EventSink) *Multiplier {
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	return &Multiplier{
		cfg:   cfg,
		value: 1,
		sink:  sinkOrDiscard(sink),
	}
}

// Value returns the current multiplier.
func (m *Multiplier) Value() int {
	return m.value
}

// Timer returns the remaining decay timer.
func (m *Multiplier) Timer() float64 {
	return m.decayTimer
}

// Fraction returns the remaining decay timer relative to DecayTime.
func (m *Multiplier) Fraction() float64 {
	if m.cfg.DecayTime <= 0 {
		return 0
	}
	return m.decayTimer / m.cfg.DecayTime
}

// Increment raises the value by one tier unless it is already at Max.
func (m *Multiplier) Increment() {
	if m.value >= m.cfg.Max {
		return
	}
	m.value++
	m.decayTimer = m.cfg.DecayTime
	m.emit()
}

// Decrement lowers the value by one tier unless it is already at 1.
func (m *Multiplier) Decrement() {
	if m.value <= 1 {
		return
	}
	m.value--
	m.decayTimer = m.cfg.DecayTime
	m.emit()
}

// Tick advances the decay timer by dt seconds.
func (m *Multiplier) Tick(dt float64) {
	if m.decayTimer <= 0 {
		return
	}
	m.decayTimer = math.Max(m.decayTimer-m.cfg.DecayRate*dt, 0)
	if m.decayTimer == 0 {
		m.Decrement()
	}
	m.emit()
}

// Reset returns the multiplier to its initial state.
func (m *Multiplier) Reset() {
	m.value = 1
	m.decayTimer = 0
	m.emit()
}

func (m *Multiplier) emit() {
	m.sink.Emit(MultiplierEvent{Value: m.value, Fraction: m.Fraction()})
}
