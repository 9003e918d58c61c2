package repository

import (
	"errors"
)

var (
	// ErrConflict is returned by Create when the username is already taken.
	ErrConflict = errors.New("user already exists")
	// ErrNotFound is returned by Delete when no row matched the username.
	ErrNotFound = errors.New("user not found")
)

// StorageError wraps any other failure coming from the database driver.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Kind classifies an error returned by this package.
type Kind int

const (
	KindNone Kind = iota
	KindConflict
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	default:
		return "storage failure"
	}
}

// KindOf reports which failure class err belongs to. Errors that did not
// originate here are treated as storage failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindStorage
	}
}
