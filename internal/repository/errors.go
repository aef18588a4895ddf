package repository

import "errors"

var (
	// ErrStoreIO indicates a backing file or database could not be read or written.
	ErrStoreIO = errors.New("store i/o failure")
	// ErrDeserialization indicates the backing data exists but is corrupt.
	ErrDeserialization = errors.New("store data is corrupt")
)
