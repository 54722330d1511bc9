package core

// RampOp is the update rule of a ProgressiveTimer.
type RampOp uint8

const (
	// RampIncremental grows the value by rate each step until it reaches end.
	RampIncremental RampOp = iota
	// RampDecremental shrinks the value by rate each step until it reaches end.
	RampDecremental
)

// String returns the config token of the operation.
func (op RampOp) String() string {
	if op == RampDecremental {
		return "decremental"
	}
	return "incremental"
}

// Apply computes the next value.
func (op RampOp) Apply(current, rate float64) float64 {
	if op == RampDecremental {
		return current * (1 - rate)
	}
	return current * (1 + rate)
}

// Reached reports whether current has arrived at end.
func (op RampOp) Reached(current, end float64) bool {
	if op == RampDecremental {
		return current <= end
	}
	return current >= end
}

// RampConfig describes a ramped quantity.
type RampConfig struct {
	Initial  float64
	End      float64
	Rate     float64 // Relative change per step
	Interval float64 // Seconds between steps
	Op       RampOp
}

// ProgressiveTimer moves a value toward an end value by a relative rate,
// one step every Interval seconds, and stops once the end is reached.
type ProgressiveTimer struct {
	current  float64
	end      float64
	rate     float64
	interval float64
	elapsed  float64
	complete bool
	op       RampOp

	// OnChange is called with the new value after every step.
	OnChange func(value float64)
}

// NewProgressiveTimer creates a timer from its config.
func NewProgressiveTimer(cfg RampConfig) *ProgressiveTimer {
	return &ProgressiveTimer{
		current:  cfg.Initial,
		end:      cfg.End,
		rate:     cfg.Rate,
		interval: cfg.Interval,
		op:       cfg.Op,
	}
}

// Value returns the current value.
func (t *ProgressiveTimer) Value() float64 {
	return t.current
}

// Complete reports whether the end value was reached.
func (t *ProgressiveTimer) Complete() bool {
	return t.complete
}

// Update accumulates dt and steps the value once the interval has passed.
func (t *ProgressiveTimer) Update(dt float64) {
	if t.complete {
		return
	}
	t.elapsed += dt
	if t.elapsed < t.interval {
		return
	}
	t.elapsed = 0

	t.current = t.op.Apply(t.current, t.rate)
	if t.op.Reached(t.current, t.end) {
		t.current = t.end
		t.complete = true
	}
	if t.OnChange != nil {
		t.OnChange(t.current)
	}
}

// Reset restarts the ramp from initial toward end. Rate, interval and
// operation are kept.
func (t *ProgressiveTimer) Reset(initial, end float64) {
	t.current = initial
	t.end = end
	t.elapsed = 0
	t.complete = false
}
