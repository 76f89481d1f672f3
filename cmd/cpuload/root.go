//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cpuload/pkg/load"
	"github.com/ja7ad/cpuload/pkg/sampler"
	"github.com/ja7ad/cpuload/pkg/system/clock"
	"github.com/ja7ad/cpuload/pkg/system/proc"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	defaultSamples = 2
)

// sampleInterval is the fixed cadence; tests shorten it.
var sampleInterval = sampler.DefaultInterval

type opts struct {
	backend    string
	procRoot   string
	clockTicks int64

	// outputs
	json    bool
	pretty  bool
	verbose bool
}

// usageError is a malformed invocation. A nil err means "just print usage".
type usageError struct {
	code int
	err  error
}

func (e *usageError) Error() string {
	if e.err == nil {
		return "usage"
	}
	return e.err.Error()
}

func (e *usageError) Unwrap() error { return e.err }

func newRootCmd(o *opts, stdout io.Writer, logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	root := &cobra.Command{
		Use:   "cpuload [flags] <PID> [number of 1-second samples]",
		Short: "Measure the CPU load of a Linux process",
		Long: `cpuload samples /proc/<PID>/stat once per second and prints three
utilization ratios, where 1.0 is one fully busy core:

  1. the mean of the per-second ratios over the run
  2. the ratio between the first and the last sample
  3. the average ratio over the whole life of the process

Child processes the target has waited for are included.`,
		Example: `  cpuload 1234
  cpuload 1234 10
  cpuload --pretty $(pidof nginx | cut -d' ' -f1) 5`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return &usageError{code: exitFailure, err: fmt.Errorf("too many arguments: %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.verbose {
				level.Set(slog.LevelDebug)
			}
			if len(args) == 0 {
				return &usageError{code: exitUsage}
			}
			return run(cmd.Context(), *o, args, stdout, logger)
		},
	}

	root.Flags().StringVar(&o.backend, "backend", proc.BackendStat, "accounting reader: stat (positional /proc/<pid>/stat) or procfs")
	root.Flags().StringVar(&o.procRoot, "proc-root", clock.DefaultProcRoot, "procfs mount point")
	root.Flags().Int64Var(&o.clockTicks, "clock-ticks", 0, "clock ticks per second (0 = sysconf(SC_CLK_TCK))")
	root.Flags().BoolVar(&o.json, "json", false, "print the full report as JSON")
	root.Flags().BoolVar(&o.pretty, "pretty", false, "print a styled summary instead of the plain line")
	root.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging on stderr")
	root.MarkFlagsMutuallyExclusive("json", "pretty")
	// flags stop at the PID so a negative sample count reaches parseSampleCount
	root.Flags().SetInterspersed(false)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{code: exitFailure, err: err}
	})
	return root
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		o      opts
		helped bool
		level  = new(slog.LevelVar)
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	)

	root := newRootCmd(&o, stdout, logger, level)
	root.SetArgs(args)
	root.SetOut(stderr)
	root.SetErr(stderr)
	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		helped = true
		printUsage(stderr, c)
	})

	err := root.ExecuteContext(ctx)
	if helped {
		return exitUsage
	}
	if err == nil {
		return exitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		if ue.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", root.Name(), ue.err)
		}
		printUsage(stderr, root)
		return ue.code
	}
	logger.Error(err.Error())
	return exitFailure
}

func printUsage(w io.Writer, c *cobra.Command) {
	fmt.Fprintf(w, "usage: %s <PID> [number of 1-second samples]\n\nFlags:\n%s", c.Name(), c.Flags().FlagUsages())
}

func run(ctx context.Context, o opts, args []string, stdout io.Writer, logger *slog.Logger) error {
	pid, err := parsePID(args[0])
	if err != nil {
		return &usageError{code: exitFailure, err: err}
	}
	n := defaultSamples
	if len(args) > 1 {
		n = parseSampleCount(args[1])
	}

	cfg, err := clock.Resolve(clock.WithTicksPerSecond(o.clockTicks), clock.WithProcRoot(o.procRoot))
	if err != nil {
		return err
	}
	src := clock.New(cfg)

	reader, err := proc.NewReader(o.backend, cfg.ProcRoot)
	if err != nil {
		if errors.Is(err, proc.ErrUnsupported) {
			return &usageError{code: exitFailure, err: err}
		}
		return err
	}
	if !proc.Exists(cfg.ProcRoot, pid) {
		return fmt.Errorf("failed to collect information, PID not valid? %w: pid %d", proc.ErrProcessNotFound, pid)
	}
	calc, err := load.NewCalculator(cfg.TicksPerSecond, src)
	if err != nil {
		return err
	}
	col := sampler.New(reader, src, sampler.WithInterval(sampleInterval), sampler.WithLogger(logger))

	logger.Debug("sampling", "pid", pid, "samples", n, "backend", o.backend,
		"ticks_per_second", cfg.TicksPerSecond, "interval", col.Interval())

	seq, err := col.Collect(ctx, pid, n)
	if err != nil {
		return fmt.Errorf("failed to collect information, PID not valid? %w", err)
	}
	rep, err := calc.Report(seq)
	if err != nil {
		return err
	}

	switch {
	case o.json:
		return writeJSON(stdout, rep)
	case o.pretty:
		return writePretty(stdout, rep)
	default:
		return writeLine(stdout, rep)
	}
}

// parsePID accepts positive decimal integers only.
func parsePID(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("failed to parse PID from argument %q", s)
	}
	return pid, nil
}

// parseSampleCount falls back to the default for non-numeric input and
// clamps anything below two up to two.
func parseSampleCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultSamples
	}
	if n < 2 {
		return 2
	}
	return n
}
