package solver

import "log/slog"

// Tracker receives solver telemetry as key-value events. The solver emits
// these as informational signals, never as control flow.
//
// At default verbosity only the final iteration count and timings are
// reported; a verbose tracker additionally receives every iteration's
// worst-rhs diagnostic.
type Tracker interface {
	Event(msg string, args ...any)
	Verbose() bool
}

// NopTracker discards all events.
type NopTracker struct{}

// Event discards the event.
func (NopTracker) Event(string, ...any) {}

// Verbose reports false.
func (NopTracker) Verbose() bool { return false }

// logTracker forwards events to a structured logger.
type logTracker struct {
	logger  *slog.Logger
	verbose bool
}

// NewLogTracker returns a Tracker forwarding events to logger at Info
// level. With verbose enabled, per-iteration diagnostics are included.
func NewLogTracker(logger *slog.Logger, verbose bool) Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &logTracker{logger: logger, verbose: verbose}
}

func (t *logTracker) Event(msg string, args ...any) {
	t.logger.Info(msg, args...)
}

func (t *logTracker) Verbose() bool { return t.verbose }
