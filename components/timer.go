package components

// Timer is a stopwatch: it is told how much time has passed and reports
// when the period has elapsed. The counter may run past the period; Reset
// subtracts one period so repeating timers do not lose time.
type Timer struct {
	Elapsed float64
	Period  float64
}

// NewTimer creates a timer with the given period in seconds.
func NewTimer(period float64) Timer {
	return Timer{Period: period}
}

// Tick advances the timer and reports whether it has expired.
func (t *Timer) Tick(dt float64) bool {
	t.Elapsed += dt
	return t.Expired()
}

// Expired reports whether the timer has counted a full period.
func (t *Timer) Expired() bool {
	return t.Elapsed >= t.Period
}

// Reset subtracts one period from the counter.
func (t *Timer) Reset() {
	t.Elapsed -= t.Period
}

// AdvanceToFraction sets the counter to frac of the period, frac in [0, 1].
func (t *Timer) AdvanceToFraction(frac float64) {
	t.Elapsed = t.Period * frac
}

// PickIndex maps the elapsed fraction onto [0, n), clamping to n-1 once
// expired. Used to pick animation frames.
func (t *Timer) PickIndex(n int) int {
	if n <= 1 || t.Period <= 0 {
		return 0
	}
	last := n - 1
	i := int(t.Elapsed / t.Period * float64(last))
	if i > last {
		return last
	}
	if i < 0 {
		return 0
	}
	return i
}
