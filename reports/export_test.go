package reports

import "time"

// Test hook for a deterministic clock.
func (a *Aggregator) SetClock(fn func() time.Time) { a.clock = fn }
