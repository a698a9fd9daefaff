package pipeline

import "time"

// WeekdayGate is a predicate over the current date controlling whether a
// gated stage runs. The runner evaluates it exactly once per run, at
// gate-check time, with its injected clock.
type WeekdayGate struct {
	Target time.Weekday
}

// Open reports whether the gate admits the given instant.
func (g *WeekdayGate) Open(now time.Time) bool {
	return now.Weekday() == g.Target
}
