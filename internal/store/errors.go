package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")

	// ErrStaleStatus is returned by guarded updates when the row's status
	// changed since it was read. Callers treat it as a lost race, not a failure.
	ErrStaleStatus = errors.New("document status changed concurrently")
)
