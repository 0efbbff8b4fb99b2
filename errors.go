package calsolve

import "fmt"

// ConfigurationError reports malformed static board or piece data at
// construction time. No solver is produced when one is returned.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid solver configuration: %s", e.Reason)
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// QueryError reports a date query whose labels do not resolve on the board.
// The solver itself is unaffected and remains usable.
type QueryError struct {
	Query  Query
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %v: %s", e.Query, e.Reason)
}
