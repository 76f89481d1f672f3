//go:build linux

// Package clock provides the two time bases used for load sampling:
// kernel uptime expressed in clock ticks (for process age) and a monotonic
// timestamp (for elapsed wall time between samples).
//
// The tick rate and the proc mount point are resolved once into a Config at
// startup and passed explicitly to everything that needs them.
package clock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// DefaultProcRoot is where procfs is normally mounted.
const DefaultProcRoot = "/proc"

// Config is the process-wide environment for one run.
type Config struct {
	TicksPerSecond int64
	ProcRoot       string
}

// Option adjusts how Resolve builds a Config.
type Option func(*Config)

// WithTicksPerSecond skips the sysconf query and uses n instead.
// Values <= 0 are ignored.
func WithTicksPerSecond(n int64) Option {
	return func(c *Config) {
		if n > 0 {
			c.TicksPerSecond = n
		}
	}
}

// WithProcRoot reads uptime from root instead of /proc.
func WithProcRoot(root string) Option {
	return func(c *Config) {
		if root != "" {
			c.ProcRoot = root
		}
	}
}

// sysconfClockTicks is swapped out in tests.
var sysconfClockTicks = func() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_CLK_TCK)
}

// Resolve builds the run Config. The tick rate comes from
// sysconf(_SC_CLK_TCK) unless overridden; a missing or non-positive
// rate is ErrEnvironmentUnavailable.
func Resolve(opts ...Option) (Config, error) {
	cfg := Config{ProcRoot: DefaultProcRoot}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.TicksPerSecond > 0 {
		return cfg, nil
	}

	tps, err := sysconfClockTicks()
	if err != nil {
		return Config{}, fmt.Errorf("%w: sysconf(SC_CLK_TCK): %v", ErrEnvironmentUnavailable, err)
	}
	if tps <= 0 {
		return Config{}, fmt.Errorf("%w: sysconf(SC_CLK_TCK) returned %d", ErrEnvironmentUnavailable, tps)
	}
	cfg.TicksPerSecond = tps
	return cfg, nil
}

// Timestamp is a monotonic clock reading in nanoseconds. Only differences
// between two Timestamps are meaningful.
type Timestamp int64

// TimestampOf builds a Timestamp from seconds and nanoseconds.
func TimestampOf(sec, nsec int64) Timestamp {
	return Timestamp(sec*int64(time.Second) + nsec)
}

// Sub returns t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration { return time.Duration(t - u) }

// Seconds returns the reading as seconds plus fraction.
func (t Timestamp) Seconds() float64 { return time.Duration(t).Seconds() }

// Source reads the clocks described by a Config.
type Source struct {
	cfg Config
	now func() (Timestamp, error)
}

// New returns a Source for cfg.
func New(cfg Config) *Source {
	if cfg.ProcRoot == "" {
		cfg.ProcRoot = DefaultProcRoot
	}
	return &Source{cfg: cfg, now: monotonicNow}
}

// Config returns the resolved configuration.
func (s *Source) Config() Config { return s.cfg }

// TicksPerSecond returns the clock-tick rate.
func (s *Source) TicksPerSecond() int64 { return s.cfg.TicksPerSecond }

// TicksSinceBoot reads <ProcRoot>/uptime and converts it to whole ticks.
// The sub-tick remainder is truncated.
func (s *Source) TicksSinceBoot() (uint64, error) {
	b, err := os.ReadFile(filepath.Join(s.cfg.ProcRoot, "uptime"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEnvironmentUnavailable, err)
	}
	ticks, err := parseUptime(string(b), s.cfg.TicksPerSecond)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEnvironmentUnavailable, err)
	}
	return ticks, nil
}

// Now returns the current monotonic time.
func (s *Source) Now() (Timestamp, error) { return s.now() }

func monotonicNow() (Timestamp, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, fmt.Errorf("%w: clock_gettime(CLOCK_MONOTONIC): %v", ErrEnvironmentUnavailable, err)
	}
	return Timestamp(ts.Nano()), nil
}

// maxFracDigits keeps frac*tps well inside uint64.
const maxFracDigits = 9

// parseUptime converts the first field of /proc/uptime ("12345.67 5432.10")
// to ticks using integer arithmetic only.
func parseUptime(s string, tps int64) (uint64, error) {
	if tps <= 0 {
		return 0, fmt.Errorf("invalid tick rate %d", tps)
	}
	fs := strings.Fields(s)
	if len(fs) == 0 {
		return 0, fmt.Errorf("empty uptime record")
	}

	intPart, fracPart, _ := strings.Cut(fs[0], ".")
	secs, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse uptime %q: %w", fs[0], err)
	}
	rate := uint64(tps)
	ticks := secs * rate

	if fracPart == "" {
		return ticks, nil
	}
	if len(fracPart) > maxFracDigits {
		fracPart = fracPart[:maxFracDigits]
	}
	frac, err := strconv.ParseUint(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse uptime %q: %w", fs[0], err)
	}
	scale := uint64(1)
	for range len(fracPart) {
		scale *= 10
	}
	return ticks + frac*rate/scale, nil
}
