package olcart

import "errors"

var (
	// ErrClosed is returned by Get, Put, Insert, Remove, ComputeOrInsert,
	// ComputeIfPresent, CompareExchange, Range, Keys and Stats when called
	// after Close.
	ErrClosed = errors.New("olcart: tree is closed")

	// ErrInvalidRange is returned by Range when lo is not strictly less
	// than hi.
	ErrInvalidRange = errors.New("olcart: lo must be less than hi")

	// ErrNotFound is returned by CompareExchange when the key does not
	// currently exist. (ComputeIfPresent reports absence through its found
	// result instead.)
	ErrNotFound = errors.New("olcart: key not found")

	// ErrCompareMismatch is returned by CompareExchange when the observed
	// value does not equal the expected one.
	ErrCompareMismatch = errors.New("olcart: compare-exchange mismatch")

	// ErrOutOfMemory is returned by Put, Insert, ComputeOrInsert, and
	// ComputeIfPresent when the configured allocator cannot satisfy a node
	// allocation during growth or insert. The tree is left logically
	// unchanged: any half-built node on the growth path is freed before
	// this error is returned.
	ErrOutOfMemory = errors.New("olcart: allocator out of memory")
)
