package obs

import "sync"

// DoubleBuffer is the handoff between the aggregator and the transport:
// one record being filled, one completed and eligible for transmission.
// Single producer, single consumer, no queue - the report slot holds the
// only record ever in flight.
type DoubleBuffer struct {
	records [2]Record
	current int // index being filled; the report index is always 1-current
	lock    sync.Mutex
}

func NewDoubleBuffer() *DoubleBuffer {
	return &DoubleBuffer{}
}

// Current returns the record being filled. Aggregator use only; the
// aggregator is single threaded so no lock is needed on the write side
// until the swap.
func (d *DoubleBuffer) Current() *Record {
	return &d.records[d.current]
}

// Swap completes the current record: it becomes the report record and the
// other slot is recycled for filling. Called only by the aggregator, once
// per report close.
func (d *DoubleBuffer) Swap() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.current = 1 - d.current
}

// Report returns a copy of the last completed record. The copy is taken
// under the swap lock so a reader can never observe a half-written record.
func (d *DoubleBuffer) Report() Record {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.records[1-d.current]
}
