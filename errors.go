package erdump

import "errors"

var (
	// ErrNoTables indicates the source text contained no usable table definition.
	// It is informational: callers skip rendering instead of failing.
	ErrNoTables = errors.New("no table definitions found")
	// ErrEnvironmentNotFound indicates the requested database environment is not configured.
	ErrEnvironmentNotFound = errors.New("environment not found")
)
