package materialize

import "errors"

var (
	ErrNilSchema           = errors.New("schema is nil")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	ErrEmptyDriver         = errors.New("database driver cannot be empty")
	ErrConnectionFailed    = errors.New("failed to connect to database")
	ErrApplyFailed         = errors.New("failed to apply statement")
)
