package cli

import (
	"errors"

	"go.uber.org/zap"

	"studentbook/internal/logger"
	"studentbook/internal/repository"
	"studentbook/internal/service"
)

type errorClass struct {
	err  error
	kind string
	msg  string
}

var errorClasses = []errorClass{
	{service.ErrUserNotFound, "NotFound", "user not found"},
	{service.ErrBadPassword, "BadPassword", "wrong password"},
	{service.ErrDuplicateUser, "DuplicateUser", "a user with this name already exists"},
	{service.ErrProtectedAccount, "ProtectedAccount", "the admin account cannot be deleted"},
	{service.ErrInvalidInput, "InvalidInput", "username and password must be non-empty, without surrounding spaces, ':' or line breaks"},
	{service.ErrIndexOutOfRange, "IndexOutOfRange", "invalid student number"},
	{service.ErrInvalidRating, "InvalidRating", "rating must be a number between 0 and 100"},
	{repository.ErrDeserialization, "DeserializationError", "the data file is corrupt, details in the error log"},
	{repository.ErrStoreIO, "StoreIOError", "could not access the data files, details in the error log"},
	{errInterrupted, "Interrupted", "input interrupted"},
}

// errorKind returns the category and kind tag of err, e.g.
// "AuthenticationError/BadPassword", and a short message for the user.
func errorKind(err error) (kind, msg string) {
	category := "Error"
	var ae *service.AuthenticationError
	var de *service.DataOperationError
	switch {
	case errors.As(err, &ae):
		category = "AuthenticationError"
	case errors.As(err, &de):
		category = "DataOperationError"
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return category + "/" + c.kind, c.msg
		}
	}
	return category + "/Unexpected", "an unexpected error occurred, details in the error log"
}

func logFailure(log *zap.Logger, op string, err error) string {
	kind, msg := errorKind(err)
	logger.LogError(log, kind, op, err)
	return msg
}
