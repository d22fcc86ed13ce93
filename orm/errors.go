package orm

import "errors"

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrUnsafeWrite is returned by Delete and UpdateColumns when no WHERE
// clause is set.
var ErrUnsafeWrite = errors.New("orm: write without WHERE clause is not allowed")
