package vane

import (
	"testing"

	"github.com/gr-butler/lorastation/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFor picks an ADC value that calibrates to exactly deg with zero offset.
func rawFor(t *testing.T, a *Averager, deg int) int {
	t.Helper()
	raw := (deg*env.VaneScale + 358) / 359
	require.Equal(t, deg, a.Calibrate(raw))
	return raw
}

func TestCalibrateMapsFullScale(t *testing.T) {
	a := NewAverager(env.DirectionAvgDepth, 0, env.VaneScale)

	assert.Equal(t, 0, a.Calibrate(0))
	assert.Equal(t, 359, a.Calibrate(env.VaneScale))
	assert.Equal(t, 179, a.Calibrate(env.VaneScale/2))
}

func TestCalibrateAppliesOffsetAndWraps(t *testing.T) {
	a := NewAverager(env.DirectionAvgDepth, 30, env.VaneScale)

	// 359 + 30 = 389, wraps back by 360
	assert.Equal(t, 29, a.Calibrate(env.VaneScale))
	assert.Equal(t, 30, a.Calibrate(0))
	assert.Equal(t, a.Calibrate(0), a.Last())
}

func TestReconcileAcrossNorthWrap(t *testing.T) {
	a := NewAverager(env.DirectionAvgDepth, 0, env.VaneScale)

	// a breeze backing through north: naive averaging of 350,355,5,10
	// would smooth towards south. The +/-360 reconciliation must produce a
	// monotonic trend instead.
	trend := []int{}
	for _, deg := range []int{350, 355, 5, 10} {
		rawFor(t, a, deg)
		trend = append(trend, a.Reconcile())
	}

	assert.Equal(t, []int{-10, -5, 5, 10}, trend)
	for i := 1; i < len(trend); i++ {
		assert.Greater(t, trend[i], trend[i-1], "smoothed output must trend, not jump")
	}
}

func TestReconcileStaysPutMidRange(t *testing.T) {
	a := NewAverager(env.DirectionAvgDepth, 0, env.VaneScale)

	// directions well away from the wrap have no closer alternative
	for _, deg := range []int{170, 175, 180, 185} {
		rawFor(t, a, deg)
		assert.Equal(t, deg, a.Reconcile())
	}
}

func TestReconcileSwingAcrossNorth(t *testing.T) {
	a := NewAverager(env.DirectionAvgDepth, 0, env.VaneScale)

	// settle the average at 10 degrees
	for i := 0; i < env.DirectionAvgDepth; i++ {
		rawFor(t, a, 10)
		assert.Equal(t, 10, a.Reconcile())
	}
	// a swing to 350 is a 20-degree shift through north, not a 340-degree
	// jump: the -10 representation wins
	rawFor(t, a, 350)
	assert.Equal(t, -10, a.Reconcile())
}
