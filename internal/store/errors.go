package store

import "errors"

// ErrNotFound is returned when a delete or lookup targets a record that does
// not exist.
var ErrNotFound = errors.New("not found")
