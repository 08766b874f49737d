package vane

import (
	"github.com/gr-butler/lorastation/buffer"
)

/*
 * Averager smooths wind vane readings. Naive degree averaging breaks at the
 * 0/360 wrap: readings swinging around north (350, 355, 5, 10) average out
 * to ~180, due south. The fix is to keep the smoothing in an extended
 * -90..450 range: at every report close the last calibrated direction is
 * tested against its +/-360 shifted alternative and whichever lies closer
 * to the recent boxcar average is folded in. Reported directions carry a
 * +90 offset so the extended range stays non-negative on the wire.
 */

type Averager struct {
	boxcar       *buffer.Boxcar
	recentAvg    int // boxcar average of the last reconciled directions
	calDirection int // last calibrated direction, extended range after Reconcile
	offset       int
	scale        int
}

func NewAverager(depth int, offset int, scale int) *Averager {
	return &Averager{
		boxcar: buffer.NewBoxcar(depth),
		offset: offset,
		scale:  scale,
	}
}

// Calibrate maps a raw full-scale vane reading linearly onto 0-359 degrees
// and applies the calibration offset, wrapping back into range. This is the
// base-range reading taken on every sampling tick.
func (a *Averager) Calibrate(raw int) int {
	direction := raw * 359 / a.scale
	cal := direction + a.offset
	if cal > 360 {
		cal = cal - 360
	}
	a.calDirection = cal
	return cal
}

// Reconcile is the extended-range pass run once per report close. It takes
// no new reading: the last calibrated direction is shifted by +/-360 where
// that lands closer to the recent average, then folded into the boxcar.
// Returns the reconciled direction in -90..450.
func (a *Averager) Reconcile() int {
	cal := a.calDirection

	alt := cal
	if cal > 270 {
		alt = cal - 360
	} else if cal < 90 {
		alt = cal + 360
	}

	deltaAsRead := abs(cal - a.recentAvg)
	deltaExtd := abs(alt - a.recentAvg)
	if deltaAsRead >= deltaExtd {
		cal = alt
	}
	a.calDirection = cal

	a.boxcar.AddItem(float64(cal))
	a.recentAvg = int(a.boxcar.GetSum()) / a.boxcar.GetSize()
	return cal
}

// Last returns the most recent direction, calibrated or reconciled,
// whichever happened later.
func (a *Averager) Last() int {
	return a.calDirection
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
