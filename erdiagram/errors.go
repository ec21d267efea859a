package erdiagram

import "errors"

var (
	ErrNilSchema      = errors.New("schema is nil")
	ErrInvalidOptions = errors.New("invalid render options")
)
