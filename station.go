package main

import (
	"context"

	"github.com/gr-butler/lorastation/counter"
	"github.com/gr-butler/lorastation/env"
	"github.com/gr-butler/lorastation/obs"
	"github.com/gr-butler/lorastation/sampler"
	"github.com/gr-butler/lorastation/vane"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// instruments is the set of synchronous reads the aggregator makes on every
// sampling tick. Implementations return calibrated physical values; what
// happens on a failed read is the sensor layer's business, the aggregator
// records whatever comes back and never blocks.
type instruments interface {
	AirTemperature() float64              // degC
	CaseTemperature() float64             // degC
	HumidityAndPressure() (rh, hPa float64)
	VaneReading() int // raw full-scale wind vane value
}

// uplink accepts one serialized observation frame for transmission at the
// next opportunity. Must not block the report cycle.
type uplink interface {
	Send(frame []byte)
}

// runAggregator is the station main loop: wait for the sample-ready signal
// and service it. Single threaded; everything below Current() in the double
// buffer, the vane boxcar and the daily baseline is owned exclusively here.
func (w *weatherstation) runAggregator(ctx context.Context) {
	logger.Info("Observation aggregator started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Observation aggregator stopped")
			return
		case s := <-w.sampler.Samples():
			w.handleSample(s)
		}
	}
}

// handleSample services one sampling tick: pull instantaneous readings,
// track the gust, and close out the report every ReportInterval-th sample.
func (w *weatherstation) handleSample(s sampler.Sample) {
	w.sampleCount++

	w.windSpeed = s.SpeedKmh
	w.airTempC = w.inst.AirTemperature()
	w.caseTempC = w.inst.CaseTemperature()
	w.humidity, w.pressureHpa = w.inst.HumidityAndPressure()
	direction := w.vane.Calibrate(w.inst.VaneReading())

	if w.windSpeed > w.windGust {
		w.windGust = w.windSpeed
		w.gustDirn = direction
	}

	if *w.args.Speedon {
		logger.Infof("Sample [%v] speed [%.2f] dir [%v]", w.sampleCount, w.windSpeed, direction)
	}

	if w.sampleCount == env.ReportInterval {
		w.closeReport()
	}
}

// closeReport finishes one observation cycle: derived rates, extended-range
// direction, the ten record fields, the buffer flip, transmission and the
// daily boundary check.
func (w *weatherstation) closeReport() {
	tips := w.rain.Count()
	periodTips := tips - w.baselineTips
	w.baselineTips = tips

	// reconcile the direction against the recent average in -90..450
	direction := w.vane.Reconcile()

	rainRate := float64(periodTips) * env.BucketSizeMM * 3600 / env.ReportPeriod.Seconds() // mm/hr

	rec := w.obs.Current()
	rec.WindGustX10 = obs.Scaled(w.windGust)
	rec.WindGustDir = uint16(w.gustDirn)
	rec.TempX10 = obs.ScaledTemp(w.airTempC)
	rec.HumidX10 = obs.Scaled(w.humidity)
	rec.PressX10 = obs.Scaled(w.pressureHpa)
	rec.RainflX10 = obs.Scaled(rainRate)
	rec.WindspX10 = obs.Scaled(w.windSpeed)
	rec.WindDir = uint16(direction + 90)
	rec.DailyRainX10 = obs.Scaled(float64(tips) * env.BucketSizeMM)
	rec.CaseTempX10 = obs.ScaledTemp(w.caseTempC)
	w.obs.Swap()

	w.sampleCount = 0
	w.windGust = 0 // gust record is per reporting period

	report := w.obs.Report()
	logger.Infof("Report closed: wind [%.1f] gust [%.1f] dir [%v] rain rate [%.1f] daily [%.1f]",
		report.WindKmh(), report.GustKmh(), w.vane.Last(), report.RainRateMMHr(), report.DailyRainMM())

	if w.uplink != nil {
		w.uplink.Send(report.Marshal())
	}
	w.publishReport(report)

	// does this report complete a daily cycle?
	if w.daily.shouldReset(w.clock.Now()) {
		logger.Info("Daily totals reset, next cycle starts from 0mm")
		w.rain.Reset()
		w.baselineTips = 0
	}
}

// newWeatherstation wires the aggregator core. The hardware, transport and
// archive collaborators are attached by the caller.
func newWeatherstation(clock clockwork.Clock, args env.Args) *weatherstation {
	w := &weatherstation{
		args:  args,
		clock: clock,
	}
	w.wind = counter.NewDebounced("wind", env.BounceInterval, clock)
	w.rain = counter.NewDebounced("rain", env.BounceInterval, clock)
	w.sampler = sampler.New(clock, w.wind, env.TimingClock, env.SampleInterval, env.KmhPerRotation)
	w.vane = vane.NewAverager(env.DirectionAvgDepth, env.VaneOffset, env.VaneScale)
	w.obs = obs.NewDoubleBuffer()
	return w
}
