package report

import "errors"

var (
	ErrWriteDocument = errors.New("failed to write document")
	ErrBrokenLinks   = errors.New("documents contain broken links")
)
