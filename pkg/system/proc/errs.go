package proc

import "errors"

var (
	// ErrProcessNotFound indicates that the accounting record for a PID could
	// not be opened or parsed. Every reader failure wraps it.
	ErrProcessNotFound = errors.New("proc: process not found")

	// ErrNoStat indicates that /proc/<pid>/stat was empty or malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrUnsupported indicates an unknown reader backend.
	ErrUnsupported = errors.New("proc: unsupported backend")
)
