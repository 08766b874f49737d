package main

import (
	"time"
)

/*
 * dailyEvaluator decides, once per report close, whether the cumulative
 * daily rain totals roll over. Reports land on a fixed cadence that rarely
 * lines up with the end-of-day hour, so a persistent "totals due" flag
 * provides the hysteresis that makes the rollover fire exactly once per 24
 * hour cycle. The window opens one hour either side of the end-of-day hour.
 */

type dailyEvaluator struct {
	endOfDayHour int
	reportPeriod time.Duration
	location     *time.Location
	totalsDue    bool
}

func newDailyEvaluator(endOfDayHour int, reportPeriod time.Duration, location *time.Location) *dailyEvaluator {
	return &dailyEvaluator{
		endOfDayHour: endOfDayHour,
		reportPeriod: reportPeriod,
		location:     location,
		totalsDue:    true,
	}
}

// shouldReset reports whether the report closing at utc is the last of the
// daily sequence.
func (d *dailyEvaluator) shouldReset(utc time.Time) bool {
	local := utc.In(d.location)
	hour := local.Hour()

	if hour < d.endOfDayHour-1 || hour >= d.endOfDayHour+1 {
		// outside the reset window; re-arm for the next cycle
		d.totalsDue = true
		return false
	}
	if !d.totalsDue {
		return false
	}
	if hour == d.endOfDayHour {
		d.totalsDue = false
		return true
	}
	if local.Minute()+int(d.reportPeriod/time.Minute) < 60 {
		// the next report still lands ahead of the end-of-day hour
		return false
	}
	// the next report would overshoot the boundary, roll over now
	d.totalsDue = false
	return true
}
