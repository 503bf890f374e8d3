package checktestdata

import "errors"

var (
	// ErrToolNotFound is returned by New when the interpreter is unavailable.
	ErrToolNotFound = errors.New("checktestdata interpreter not found")

	// ErrConfiguration is returned when a constraints file cannot be parsed.
	ErrConfiguration = errors.New("invalid constraints configuration")

	// ErrIO is returned when the materialized script cannot be written.
	ErrIO = errors.New("materializing script")

	// ErrClosed is returned by operations on a closed Controller.
	ErrClosed = errors.New("controller closed")
)
