package export

import "errors"

var (
	ErrNilSchema     = errors.New("schema is nil")
	ErrUnknownFormat = errors.New("unknown export format")
)
