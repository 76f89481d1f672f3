//go:build linux

package proc

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// 1-indexed field positions in /proc/<pid>/stat, see proc_pid_stat(5).
// These are fixed by the kernel ABI.
const (
	FieldPID        = 1
	FieldComm       = 2
	FieldState      = 3
	FieldUTime      = 14
	FieldSTime      = 15
	FieldCUTime     = 16
	FieldCSTime     = 17
	FieldNumThreads = 20
	FieldStartTime  = 22
)

// firstAfterComm is the position of the first field following ") ".
const firstAfterComm = FieldState

// StatReader reads <Root>/<pid>/stat by fixed field position.
type StatReader struct {
	Root string
}

// ReadAccounting opens and parses the stat record of pid.
func (r *StatReader) ReadAccounting(pid int) (Accounting, error) {
	root := r.Root
	if root == "" {
		root = DefaultRoot
	}
	f, err := os.Open(filepath.Join(root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return Accounting{}, notFound(pid, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Accounting{}, notFound(pid, err)
		}
		return Accounting{}, notFound(pid, ErrNoStat)
	}

	a, err := ParseStat(sc.Text())
	if err != nil {
		return Accounting{}, notFound(pid, err)
	}
	return a, nil
}

// ParseStat parses one /proc/<pid>/stat line.
//
// Caveats:
//   - comm (2nd field) is in parens and may contain spaces or ")". We split
//     at the last ") " so the numeric fields keep their positions.
//   - Tick counters are returned as uint64.
func ParseStat(line string) (Accounting, error) {
	l := strings.IndexByte(line, '(')
	r := strings.LastIndex(line, ") ")
	if l < 0 || r < l {
		return Accounting{}, ErrNoStat
	}
	pid, err := strconv.Atoi(strings.TrimSpace(line[:l]))
	if err != nil {
		return Accounting{}, ErrNoStat
	}
	fields := strings.Fields(line[r+2:])

	// field returns the raw text of a 1-indexed stat field.
	field := func(pos int) (string, error) {
		idx := pos - firstAfterComm
		if idx >= len(fields) {
			return "", ErrShortStat
		}
		return fields[idx], nil
	}
	ticks := func(pos int) (uint64, error) {
		s, err := field(pos)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, ErrNoStat
		}
		return v, nil
	}

	a := Accounting{PID: pid, Comm: line[l+1 : r]}
	if a.State, err = field(FieldState); err != nil {
		return Accounting{}, err
	}
	for _, f := range []struct {
		pos int
		dst *uint64
	}{
		{FieldUTime, &a.UTime},
		{FieldSTime, &a.STime},
		{FieldCUTime, &a.CUTime},
		{FieldCSTime, &a.CSTime},
		{FieldStartTime, &a.StartTime},
	} {
		if *f.dst, err = ticks(f.pos); err != nil {
			return Accounting{}, err
		}
	}

	threads, err := field(FieldNumThreads)
	if err != nil {
		return Accounting{}, err
	}
	if a.NumThreads, err = strconv.Atoi(threads); err != nil {
		return Accounting{}, ErrNoStat
	}
	return a, nil
}
