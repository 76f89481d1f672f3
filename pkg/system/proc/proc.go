//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = "/proc"

// Backend names accepted by NewReader.
const (
	BackendStat   = "stat"
	BackendProcfs = "procfs"
)

// Accounting is the scheduler accounting of one process at one instant.
// All times are in clock ticks.
type Accounting struct {
	PID        int
	Comm       string
	State      string
	UTime      uint64 // user mode
	STime      uint64 // kernel mode
	CUTime     uint64 // user mode, waited-for children
	CSTime     uint64 // kernel mode, waited-for children
	StartTime  uint64 // ticks after boot
	NumThreads int
}

// UserTicks is user time of the process plus its waited-for children.
func (a Accounting) UserTicks() uint64 { return a.UTime + a.CUTime }

// SystemTicks is kernel time of the process plus its waited-for children.
func (a Accounting) SystemTicks() uint64 { return a.STime + a.CSTime }

// Reader fetches accounting for a PID. Implementations must wrap every
// failure in ErrProcessNotFound.
type Reader interface {
	ReadAccounting(pid int) (Accounting, error)
}

// NewReader returns the Reader for backend, rooted at root ("" = /proc).
func NewReader(backend, root string) (Reader, error) {
	if root == "" {
		root = DefaultRoot
	}
	switch backend {
	case "", BackendStat:
		return &StatReader{Root: root}, nil
	case BackendProcfs:
		r, err := NewProcfsReader(root)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, backend)
	}
}

// Exists reports whether a given PID currently exists under root.
// It simply checks if <root>/<pid> is present.
func Exists(root string, pid int) bool {
	if root == "" {
		root = DefaultRoot
	}
	_, err := os.Stat(filepath.Join(root, strconv.Itoa(pid)))
	return err == nil
}

func notFound(pid int, err error) error {
	return fmt.Errorf("%w: pid %d: %w", ErrProcessNotFound, pid, err)
}
