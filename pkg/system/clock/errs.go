package clock

import "errors"

// ErrEnvironmentUnavailable indicates that the clock-tick rate, the uptime
// record or the monotonic clock could not be read.
var ErrEnvironmentUnavailable = errors.New("clock: environment unavailable")
