package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddItem(t *testing.T) {
	buf := NewBoxcar(4)

	buf.AddItem(1)
	buf.AddItem(1)
	buf.AddItem(1)
	buf.AddItem(1)
	assert.Equal(t, Sum(4), buf.GetSum())
	assert.Equal(t, 4, buf.GetSize())

	// the oldest value falls out of the window
	buf.AddItem(9)
	assert.Equal(t, Sum(12), buf.GetSum())
}

func TestSumTracksContents(t *testing.T) {
	buf := NewBoxcar(4)

	values := []float64{-10, -5, 5, 10, 350, 355, 5, 10, 0, -90, 450}
	window := make([]float64, 4)
	for i, v := range values {
		buf.AddItem(v)
		window[i%4] = v
		expected := 0.0
		for _, w := range window {
			expected += w
		}
		// the incrementally maintained sum must equal the sum of the
		// window contents at every step
		assert.Equal(t, Sum(expected), buf.GetSum())
	}
}
