package counter

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

const bounce = 15 * time.Millisecond

func TestDebounce(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewDebounced("rain", bounce, clk)

	// two edges inside the bounce interval count once, not twice
	assert.True(t, c.Hit())
	clk.Advance(bounce - time.Millisecond)
	assert.False(t, c.Hit())
	assert.Equal(t, int64(1), c.Count())

	// an edge exactly on the boundary is still bounce
	clk.Advance(time.Millisecond)
	assert.False(t, c.Hit())
	assert.Equal(t, int64(1), c.Count())

	// past the interval the next edge is a real event
	clk.Advance(bounce + time.Millisecond)
	assert.True(t, c.Hit())
	assert.Equal(t, int64(2), c.Count())
}

func TestDebounceStampNotUpdatedOnReject(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewDebounced("wind", bounce, clk)

	assert.True(t, c.Hit())
	// a stream of bounces must not keep pushing the window forward
	clk.Advance(10 * time.Millisecond)
	assert.False(t, c.Hit())
	clk.Advance(10 * time.Millisecond)
	// 20ms after the accepted edge: counted even though only 10ms after
	// the rejected one
	assert.True(t, c.Hit())
	assert.Equal(t, int64(2), c.Count())
}

func TestSnapshot(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewDebounced("rain", bounce, clk)

	count, last := c.Snapshot()
	assert.Equal(t, int64(0), count)
	assert.True(t, last.IsZero())

	clk.Advance(bounce * 2)
	c.Hit()
	hitAt := clk.Now()
	clk.Advance(time.Millisecond)
	c.Hit() // bounce, must not move the stamp

	count, last = c.Snapshot()
	assert.Equal(t, int64(1), count)
	assert.Equal(t, hitAt, last)
	// snapshot does not reset
	assert.Equal(t, int64(1), c.Count())
}

func TestReadAndReset(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewDebounced("wind", bounce, clk)

	for i := 0; i < 5; i++ {
		clk.Advance(bounce * 2)
		c.Hit()
	}
	assert.Equal(t, int64(5), c.ReadAndReset())
	assert.Equal(t, int64(0), c.Count())

	clk.Advance(bounce * 2)
	c.Hit()
	assert.Equal(t, int64(1), c.Count())

	c.Reset()
	assert.Equal(t, int64(0), c.Count())
}
