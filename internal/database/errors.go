package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSubscription is returned when a school already holds an
	// active-or-pending subscription. Backed by a unique partial index so
	// concurrent creates cannot both pass the check.
	ErrDuplicateSubscription = errors.New("school already has a subscription")
)
