package ledger

import "time"

// Test hooks for deterministic timestamps and IDs.

func (c *Core) SetClock(fn func() time.Time) { c.clock = fn }

func (c *Core) SetIDSource(fn func() string) { c.newID = fn }
