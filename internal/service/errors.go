package service

import (
	"errors"
	"fmt"
)

// Authentication failures.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrBadPassword      = errors.New("wrong password")
	ErrDuplicateUser    = errors.New("a user with this name already exists")
	ErrProtectedAccount = errors.New("the admin account cannot be deleted")
	ErrInvalidInput     = errors.New("username and password must be non-empty, without surrounding spaces, ':' or line breaks")
)

// Data operation failures. Store failures carry repository.ErrStoreIO or
// repository.ErrDeserialization instead.
var (
	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrInvalidRating   = errors.New("rating must be between 0 and 100")
)

// AuthenticationError reports a failed account operation.
type AuthenticationError struct {
	Op       string
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Username == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Username, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// DataOperationError reports a failed student record operation. Index is the
// owner-local index involved, or -1.
type DataOperationError struct {
	Op    string
	Index int
	Err   error
}

func (e *DataOperationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s #%d: %v", e.Op, e.Index, e.Err)
}

func (e *DataOperationError) Unwrap() error { return e.Err }

func authErr(op, username string, err error) error {
	return &AuthenticationError{Op: op, Username: username, Err: err}
}

func dataErr(op string, index int, err error) error {
	return &DataOperationError{Op: op, Index: index, Err: err}
}
