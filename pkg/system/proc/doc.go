// Package proc reads per-process scheduler accounting from /proc on Linux.
// It feeds the sampler (see pkg/sampler) and, through it, the ratio
// calculator in pkg/load.
//
// Overview
//
//   - Reader interface:
//     ReadAccounting(pid int) (Accounting, error)
//
//     ReadAccounting returns the cumulative CPU ticks of a process at the
//     moment of the call. Callers take two readings and divide the tick
//     delta by elapsed wall time to get a utilization ratio.
//
//   - Backends (NewReader):
//
//   - stat (default): StatReader parses <root>/<pid>/stat by fixed field
//     position. The positions are part of the kernel ABI and are exported as
//     Field* constants.
//
//   - procfs: ProcfsReader delegates parsing to github.com/prometheus/procfs
//     and maps its ProcStat onto the same Accounting.
//
//   - Accounting fields (all in clock ticks):
//     UTime, STime    : user / kernel time of the process (fields 14, 15)
//     CUTime, CSTime  : user / kernel time of waited-for children (16, 17)
//     StartTime       : ticks after boot at which the process started (22)
//     UserTicks()     : UTime + CUTime
//     SystemTicks()   : STime + CSTime
//
//     Children are included so that short-lived helpers spawned by the
//     target are not invisible to the measurement.
//
//   - Errors (errs.go):
//     ErrProcessNotFound : record missing or unparsable; wraps every failure
//     ErrNoStat          : stat empty or malformed
//     ErrShortStat       : stat truncated before a required field
//     ErrUnsupported     : unknown backend name
//
// # Process exit races
//
// A process may exit between opening and reading its stat file, leaving an
// empty or truncated record. Both backends report this as
// ErrProcessNotFound; a vanished process cannot be resampled, so callers
// should stop rather than retry.
//
// # PID reuse
//
// StartTime is fixed for the lifetime of a PID. If two readings of the same
// PID disagree on it, the PID was recycled. Readers do not detect this;
// the sampler logs it.
package proc
