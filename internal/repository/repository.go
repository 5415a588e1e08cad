package repository

import "errors"

// ErrNotFound is returned when a row does not exist. Services translate it
// into their own error taxonomy; pgx never leaks above this package.
var ErrNotFound = errors.New("not found")
