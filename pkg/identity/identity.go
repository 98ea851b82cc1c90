// Package identity supplies the generated fields of new records: ids and creation times.
package identity

import (
	"time"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// UUIDGenerator issues random (v4) UUID strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SystemClock reads the wall clock in UTC, truncated to the microseconds a stored
// timestamp keeps.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FixedClock always returns T. Used where deterministic timestamps are needed.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// SequenceGenerator returns the configured ids in order, then falls back to UUIDs.
type SequenceGenerator struct {
	IDs  []string
	next int
}

func (g *SequenceGenerator) NewID() string {
	if g.next < len(g.IDs) {
		id := g.IDs[g.next]
		g.next++
		return id
	}
	return uuid.NewString()
}
