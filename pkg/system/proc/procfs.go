//go:build linux

package proc

import (
	"fmt"

	"github.com/prometheus/procfs"
)

// ProcfsReader reads accounting through github.com/prometheus/procfs.
// It yields the same Accounting as StatReader and exists for hosts where
// the procfs library's parsing is preferred.
type ProcfsReader struct {
	fs procfs.FS
}

// NewProcfsReader mounts a procfs.FS at root.
func NewProcfsReader(root string) (*ProcfsReader, error) {
	if root == "" {
		root = DefaultRoot
	}
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("procfs %s: %w", root, err)
	}
	return &ProcfsReader{fs: fs}, nil
}

// ReadAccounting implements Reader.
func (r *ProcfsReader) ReadAccounting(pid int) (Accounting, error) {
	p, err := r.fs.Proc(pid)
	if err != nil {
		return Accounting{}, notFound(pid, err)
	}
	st, err := p.Stat()
	if err != nil {
		return Accounting{}, notFound(pid, err)
	}
	return Accounting{
		PID:        st.PID,
		Comm:       st.Comm,
		State:      st.State,
		UTime:      uint64(st.UTime),
		STime:      uint64(st.STime),
		CUTime:     nonNegative(st.CUTime),
		CSTime:     nonNegative(st.CSTime),
		StartTime:  st.Starttime,
		NumThreads: st.NumThreads,
	}, nil
}

// procfs exposes child times as signed clock_t.
func nonNegative(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
