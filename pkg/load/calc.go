//go:build linux

// Package load turns accounting samples into CPU utilization ratios.
//
// A ratio of 1.0 means one core fully busy for the interval. Ratios are not
// normalised by core count, so multi-threaded processes can exceed 1.0.
//
// Three ratios are computed:
//
//	Endpoint(a, b)   (b.Total - a.Total) / (elapsed(a, b) * ticksPerSecond)
//	PairwiseAverage  mean of Endpoint over the n-1 adjacent pairs
//	Lifetime(s)      s.Total / (ticksSinceBoot - s.StartTick)
package load

import (
	"fmt"
	"time"

	"github.com/ja7ad/cpuload/pkg/system/util"
)

// Uptime supplies kernel uptime in clock ticks.
type Uptime interface {
	TicksSinceBoot() (uint64, error)
}

// Calculator computes ratios for one run. It is safe for concurrent use.
type Calculator struct {
	tps    int64
	uptime Uptime
}

// NewCalculator returns a Calculator for the tick rate tps.
func NewCalculator(tps int64, uptime Uptime) (*Calculator, error) {
	if tps <= 0 {
		return nil, fmt.Errorf("load: invalid tick rate %d", tps)
	}
	if uptime == nil {
		return nil, fmt.Errorf("load: nil uptime source")
	}
	return &Calculator{tps: tps, uptime: uptime}, nil
}

// TicksPerSecond returns the tick rate ratios are computed with.
func (c *Calculator) TicksPerSecond() int64 { return c.tps }

// Endpoint returns the utilization between a and b, later minus earlier.
// b must be captured strictly after a.
func (c *Calculator) Endpoint(a, b Sample) (float64, error) {
	elapsed := b.CapturedAt.Sub(a.CapturedAt)
	if elapsed <= 0 {
		return 0, fmt.Errorf("%w: elapsed %s", ErrDegenerateInterval, elapsed)
	}
	// float subtraction: a recycled PID yields a negative ratio, not a wrapped one
	delta := float64(b.Total()) - float64(a.Total())
	return delta / (elapsed.Seconds() * float64(c.tps)), nil
}

// Pairwise returns Endpoint for each adjacent pair of seq.
func (c *Calculator) Pairwise(seq Sequence) ([]float64, error) {
	if seq.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrShortSequence, seq.Len())
	}
	out := make([]float64, 0, seq.Len()-1)
	for i := 0; i < seq.Len()-1; i++ {
		r, err := c.Endpoint(seq.At(i), seq.At(i+1))
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// PairwiseAverage averages the n-1 adjacent-pair ratios of seq.
func (c *Calculator) PairwiseAverage(seq Sequence) (float64, error) {
	ratios, err := c.Pairwise(seq)
	if err != nil {
		return 0, err
	}
	return util.Sum(ratios) / float64(seq.Len()-1), nil
}

// Lifetime returns utilization averaged over the whole life of the process
// as of s.
func (c *Calculator) Lifetime(s Sample) (float64, error) {
	age, err := c.age(s)
	if err != nil {
		return 0, err
	}
	return lifetime(s, age), nil
}

// Age returns how long the process has existed as of now.
func (c *Calculator) Age(s Sample) (time.Duration, error) {
	age, err := c.age(s)
	if err != nil {
		return 0, err
	}
	return util.TicksToDuration(age, c.tps), nil
}

func (c *Calculator) age(s Sample) (uint64, error) {
	now, err := c.uptime.TicksSinceBoot()
	if err != nil {
		return 0, err
	}
	if now <= s.StartTick {
		return 0, fmt.Errorf("%w: uptime %d ticks, start tick %d", ErrDegenerateInterval, now, s.StartTick)
	}
	return now - s.StartTick, nil
}

func lifetime(s Sample, age uint64) float64 {
	return float64(s.Total()) / float64(age)
}
