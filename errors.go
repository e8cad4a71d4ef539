package bimap

import "errors"

var (
	// ErrInvalidArgument reports a rejected constructor or option argument,
	// such as a negative initial capacity or a non-positive load factor.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConcurrentModification reports that the map was structurally
	// modified while an iterator or spliterator was traversing it.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrUnsupportedOperation reports a mutation attempted through a view
	// that only supports element removal.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrValueAlreadyPresent reports that a mutation would bind a value that
	// is already bound to a different key.
	ErrValueAlreadyPresent = errors.New("value already present")

	// ErrIllegalState reports an iterator call made out of sequence.
	ErrIllegalState = errors.New("illegal state")

	// ErrCorrupted is returned by Verify when a structural invariant does
	// not hold.
	ErrCorrupted = errors.New("corrupted")
)
