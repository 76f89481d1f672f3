//go:build linux

// Package sampler collects a fixed-cadence sequence of accounting samples
// for one process.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ja7ad/cpuload/pkg/load"
	"github.com/ja7ad/cpuload/pkg/system/clock"
	"github.com/ja7ad/cpuload/pkg/system/proc"
)

// DefaultInterval is the fixed delay between two samples.
const DefaultInterval = time.Second

// maxPrealloc bounds the up-front sample buffer; longer runs grow it.
const maxPrealloc = 1024

var (
	// ErrInvalidCount indicates a request for fewer than two samples.
	ErrInvalidCount = errors.New("sampler: need at least two samples")

	// ErrInterrupted indicates the run was cancelled between samples.
	ErrInterrupted = errors.New("sampler: interrupted")
)

// Clock supplies the monotonic stamp for each sample.
type Clock interface {
	Now() (clock.Timestamp, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithInterval overrides the delay between samples. Values <= 0 are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger; a nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// Collector reads accounting for a PID at a fixed cadence.
type Collector struct {
	reader   proc.Reader
	clock    Clock
	interval time.Duration
	logger   *slog.Logger

	// wait blocks for d or until ctx is done.
	wait func(ctx context.Context, d time.Duration) error
}

// New returns a Collector reading through r and stamping with clk.
func New(r proc.Reader, clk Clock, opts ...Option) *Collector {
	c := &Collector{
		reader:   r,
		clock:    clk,
		interval: DefaultInterval,
		logger:   slog.New(slog.DiscardHandler),
		wait:     sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("component", "sampler")
	return c
}

// Interval returns the delay between samples.
func (c *Collector) Interval() time.Duration { return c.interval }

// Collect takes n samples of pid, waiting Interval between consecutive
// reads. Any failure aborts the run; no partial sequence is returned.
// Cancelling ctx interrupts the wait, never a read in progress.
func (c *Collector) Collect(ctx context.Context, pid, n int) (load.Sequence, error) {
	if n < 2 {
		return load.Sequence{}, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}

	samples := make([]load.Sample, 0, min(n, maxPrealloc))
	var last proc.Accounting
	for i := 0; i < n; i++ {
		a, err := c.reader.ReadAccounting(pid)
		if err != nil {
			c.logger.Debug("read failed", "pid", pid, "sample", i, "err", err)
			return load.Sequence{}, fmt.Errorf("sample %d/%d: %w", i+1, n, err)
		}
		now, err := c.clock.Now()
		if err != nil {
			return load.Sequence{}, fmt.Errorf("sample %d/%d: %w", i+1, n, err)
		}
		if i > 0 && a.StartTime != last.StartTime {
			// results are meaningless from here on, but detecting reuse is
			// not reliable enough to abort on
			c.logger.Warn("pid recycled", "pid", pid, "start_tick", last.StartTime, "new_start_tick", a.StartTime)
		}
		last = a

		s := load.FromAccounting(a, now)
		samples = append(samples, s)
		c.logger.Debug("sample", "pid", pid, "i", i, "user", s.UserTicks, "system", s.SystemTicks, "at", now.Seconds())

		if i == n-1 {
			break
		}
		if err := c.wait(ctx, c.interval); err != nil {
			return load.Sequence{}, fmt.Errorf("%w after %d/%d samples: %w", ErrInterrupted, i+1, n, err)
		}
	}

	seq, err := load.NewSequence(samples...)
	if err != nil {
		return load.Sequence{}, err
	}
	return seq.WithProcess(load.Process{
		PID:     pid,
		Comm:    last.Comm,
		State:   last.State,
		Threads: last.NumThreads,
	}), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
