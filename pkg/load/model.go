//go:build linux

package load

import (
	"fmt"

	"github.com/ja7ad/cpuload/pkg/system/clock"
	"github.com/ja7ad/cpuload/pkg/system/proc"
)

// Sample is one timestamped accounting snapshot.
type Sample struct {
	UserTicks   uint64          // utime + cutime
	SystemTicks uint64          // stime + cstime
	StartTick   uint64          // ticks after boot; fixed for a live PID
	CapturedAt  clock.Timestamp // monotonic; only for elapsed time
}

// FromAccounting stamps a with at.
func FromAccounting(a proc.Accounting, at clock.Timestamp) Sample {
	return Sample{
		UserTicks:   a.UserTicks(),
		SystemTicks: a.SystemTicks(),
		StartTick:   a.StartTime,
		CapturedAt:  at,
	}
}

// Total returns user plus system ticks.
func (s Sample) Total() uint64 { return s.UserTicks + s.SystemTicks }

// Process describes the sampled process. It is informational only.
type Process struct {
	PID     int
	Comm    string
	State   string
	Threads int
}

// Sequence is an immutable, chronologically ordered run of at least two
// samples of one process.
type Sequence struct {
	samples []Sample
	process Process
}

// NewSequence copies samples into a Sequence.
func NewSequence(samples ...Sample) (Sequence, error) {
	if len(samples) < 2 {
		return Sequence{}, fmt.Errorf("%w: got %d", ErrShortSequence, len(samples))
	}
	out := make([]Sample, len(samples))
	copy(out, samples)
	return Sequence{samples: out}, nil
}

// WithProcess returns a copy of s annotated with p.
func (s Sequence) WithProcess(p Process) Sequence {
	s.process = p
	return s
}

// Process returns the annotation set by WithProcess.
func (s Sequence) Process() Process { return s.process }

// Len returns the number of samples; 0 for the zero Sequence.
func (s Sequence) Len() int { return len(s.samples) }

// At returns the i-th sample. It panics when i is out of range.
func (s Sequence) At(i int) Sample { return s.samples[i] }

// First returns the earliest sample.
func (s Sequence) First() Sample { return s.samples[0] }

// Last returns the latest sample.
func (s Sequence) Last() Sample { return s.samples[len(s.samples)-1] }

// Samples returns a copy of the samples.
func (s Sequence) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}
