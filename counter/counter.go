package counter

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

/*
 * Debounced counts contact-closure events from a mechanical sensor (the
 * anemometer reed switch, the rain bucket tip switch). The GPIO edge
 * monitors are the only writers via Hit; the aggregator reads and resets.
 * Every read-then-reset is a critical section so an edge landing mid-read
 * can never be lost or double counted.
 */

type Debounced struct {
	name    string
	bounce  time.Duration
	clock   clockwork.Clock
	lock    sync.Mutex
	count   int64
	lastHit time.Time
}

func NewDebounced(name string, bounce time.Duration, clock clockwork.Clock) *Debounced {
	return &Debounced{
		name:   name,
		bounce: bounce,
		clock:  clock,
	}
}

// Hit records one physical event. An edge arriving within the bounce
// interval of the previously accepted edge is contact bounce and is
// discarded without updating the acceptance stamp. Returns whether the
// event was counted.
func (c *Debounced) Hit() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	now := c.clock.Now()
	if now.Sub(c.lastHit) <= c.bounce {
		return false
	}
	c.count++
	c.lastHit = now
	return true
}

// Count returns the number of events accepted since the last reset.
func (c *Debounced) Count() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.count
}

// Snapshot returns the accepted count and the time of the last accepted
// event, without resetting.
func (c *Debounced) Snapshot() (int64, time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.count, c.lastHit
}

// ReadAndReset returns the accepted event count and zeroes it in one
// critical section.
func (c *Debounced) ReadAndReset() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	count := c.count
	c.count = 0
	return count
}

func (c *Debounced) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.count = 0
}

func (c *Debounced) Name() string {
	return c.name
}
