package main

import "errors"

// Sentinel errors for command operations
var (
	ErrMissingDatabase  = errors.New("either --dsn or --env must be specified")
	ErrMissingDriver    = errors.New("database driver is not specified")
	ErrInputFileMissing = errors.New("input file does not exist")
)
