package load

import "errors"

var (
	// ErrDegenerateInterval indicates a ratio whose time base is zero or
	// negative: two samples with the same monotonic stamp, samples passed
	// out of order, or a process that started in the current tick.
	ErrDegenerateInterval = errors.New("load: degenerate interval")

	// ErrShortSequence indicates fewer than two samples.
	ErrShortSequence = errors.New("load: sequence needs at least two samples")
)
