package schedprof

import "log/slog"

// Option configures a Scheduler, following the functional-options pattern
// the teacher uses for its own top-level constructor.
type Option func(*Scheduler)

// WithLogger overrides the *slog.Logger the Scheduler uses to report
// per-tick dispatch activity and cancellation. It defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithMonitor attaches a Monitor invoked once per dispatched instruction,
// equivalent to passing monitor to RunProgram directly but convenient when
// the same Scheduler value is reused across multiple runs.
func WithMonitor(monitor Monitor) Option {
	return func(s *Scheduler) { s.monitor = monitor }
}
