//go:build linux

// Package proctest builds fake proc trees for tests.
package proctest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Stat holds the fields a fake /proc/<pid>/stat record carries.
type Stat struct {
	PID       int
	Comm      string
	State     string
	UTime     uint64
	STime     uint64
	CUTime    uint64
	CSTime    uint64
	StartTime uint64
	Threads   int
}

// Line renders s as a complete 52-field stat line.
func (s Stat) Line() string {
	comm := s.Comm
	if comm == "" {
		comm = "fake"
	}
	state := s.State
	if state == "" {
		state = "S"
	}
	threads := s.Threads
	if threads == 0 {
		threads = 1
	}
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }

	// fields 3..52
	f := []string{
		state, "1", strconv.Itoa(s.PID), strconv.Itoa(s.PID), "0", "-1", "4194560",
		"500", "0", "0", "0",
		u(s.UTime), u(s.STime), u(s.CUTime), u(s.CSTime),
		"20", "0", strconv.Itoa(threads), "0", u(s.StartTime),
		"12345678", "300", "18446744073709551615",
	}
	for len(f) < 50 {
		f = append(f, "0")
	}
	return fmt.Sprintf("%d (%s) %s\n", s.PID, comm, strings.Join(f, " "))
}

// NewRoot returns an empty temporary proc root.
func NewRoot(t testing.TB) string {
	t.Helper()
	return t.TempDir()
}

// WriteStat writes <root>/<pid>/stat from s.
func WriteStat(t testing.TB, root string, s Stat) {
	t.Helper()
	WriteRawStat(t, root, s.PID, s.Line())
}

// WriteRawStat writes arbitrary content to <root>/<pid>/stat.
func WriteRawStat(t testing.TB, root string, pid int, content string) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(pid))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(content), 0o644))
}

// WriteUptime writes <root>/uptime with the given seconds since boot.
func WriteUptime(t testing.TB, root string, uptime string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "uptime"), []byte(uptime+" 0.00\n"), 0o644))
}

// RemovePID deletes <root>/<pid>, simulating process exit.
func RemovePID(t testing.TB, root string, pid int) {
	t.Helper()
	require.NoError(t, os.RemoveAll(filepath.Join(root, strconv.Itoa(pid))))
}
