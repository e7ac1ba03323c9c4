package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")

	// ErrConcurrentUpdate is returned when an optimistic compare-and-swap
	// write matched zero rows: another writer got there first.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
