//go:build linux

package load

import (
	"time"

	"github.com/ja7ad/cpuload/pkg/system/util"
)

// Report bundles every figure derived from one Sequence.
type Report struct {
	PID     int    `json:"pid"`
	Comm    string `json:"comm,omitempty"`
	State   string `json:"state,omitempty"`
	Threads int    `json:"threads,omitempty"`

	Samples        int           `json:"samples"`
	Window         time.Duration `json:"window_ns"`
	TicksPerSecond int64         `json:"ticks_per_second"`

	PairwiseAverage float64          `json:"pairwise_average"`
	PairwiseStddev  float64          `json:"pairwise_stddev"`
	Pairwise        []float64        `json:"pairwise"`
	Histogram       map[string]int64 `json:"histogram"`
	Endpoint        float64          `json:"endpoint"`
	Lifetime        float64          `json:"lifetime"`

	AgeTicks uint64        `json:"age_ticks"`
	Age      time.Duration `json:"age_ns"`
}

// Report computes all ratios of seq. Lifetime utilization is taken from the
// last sample, i.e. the lifetime load as of the end of the run.
func (c *Calculator) Report(seq Sequence) (Report, error) {
	pairs, err := c.Pairwise(seq)
	if err != nil {
		return Report{}, err
	}
	endpoint, err := c.Endpoint(seq.First(), seq.Last())
	if err != nil {
		return Report{}, err
	}
	last := seq.Last()
	age, err := c.age(last)
	if err != nil {
		return Report{}, err
	}

	p := seq.Process()
	return Report{
		PID:             p.PID,
		Comm:            p.Comm,
		State:           p.State,
		Threads:         p.Threads,
		Samples:         seq.Len(),
		Window:          last.CapturedAt.Sub(seq.First().CapturedAt),
		TicksPerSecond:  c.tps,
		PairwiseAverage: util.Sum(pairs) / float64(seq.Len()-1),
		PairwiseStddev:  util.Stddev(pairs),
		Pairwise:        pairs,
		Histogram:       NewHistogram(pairs...).Map(),
		Endpoint:        endpoint,
		Lifetime:        lifetime(last, age),
		AgeTicks:        age,
		Age:             util.TicksToDuration(age, c.tps),
	}, nil
}
