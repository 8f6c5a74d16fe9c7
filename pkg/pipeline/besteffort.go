package pipeline

import "log/slog"

// attempt is the single best-effort wrapper for optional collaborator calls:
// the error is logged, the zero value returned, and ok reports whether the
// call succeeded. Fatality decisions stay with the orchestrator.
func attempt[T any](log *slog.Logger, step string, fn func() (T, error)) (T, bool) {
	v, err := fn()
	if err != nil {
		log.Warn("step failed, continuing with degraded data", "step", step, "error", err)
		var zero T
		return zero, false
	}
	return v, true
}
