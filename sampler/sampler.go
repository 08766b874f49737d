package sampler

import (
	"context"
	"time"

	"github.com/gr-butler/lorastation/counter"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// Sample is one sampling-clock closure: the instantaneous wind speed
// computed from the rotations accumulated over the sample interval.
type Sample struct {
	SpeedKmh float64
}

// Sampler is the fixed-period timing clock. Every interval ticks it
// converts the rotation count to km/h, resets the count and raises the
// sample-ready signal for the aggregator. It is the only producer of that
// signal; the aggregator is the only consumer.
type Sampler struct {
	clock      clockwork.Clock
	rotations  *counter.Debounced
	period     time.Duration
	interval   int
	conversion float64
	tickCount  int
	ready      chan Sample
}

func New(clock clockwork.Clock, rotations *counter.Debounced, period time.Duration, interval int, conversion float64) *Sampler {
	return &Sampler{
		clock:      clock,
		rotations:  rotations,
		period:     period,
		interval:   interval,
		conversion: conversion,
		ready:      make(chan Sample, 1),
	}
}

// Samples is the sample-ready signal. Depth 1 with flag semantics: a sample
// completing while the previous one is still unserviced replaces it, so the
// flag stays set and carries the latest speed. Samples never queue.
func (s *Sampler) Samples() <-chan Sample {
	return s.ready
}

func (s *Sampler) Run(ctx context.Context) {
	logger.Infof("Sampling clock started, period [%v] interval [%v]", s.period, s.interval)
	ticker := s.clock.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Tick()
		}
	}
}

// Tick services one timing-clock fire.
func (s *Sampler) Tick() {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	speed := float64(s.rotations.ReadAndReset()) * s.conversion
	// discard an unserviced sample so the signal carries the latest speed
	select {
	case <-s.ready:
	default:
	}
	select {
	case s.ready <- Sample{SpeedKmh: speed}:
	default:
	}
}
