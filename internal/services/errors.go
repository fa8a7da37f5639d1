package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrAlreadyMember   = errors.New("user is already a member")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidParent   = errors.New("invalid parent comment")
	ErrConflict        = errors.New("conflicting concurrent update")
	ErrUnavailable     = errors.New("storage unavailable")
)

// translateDBError maps gorm and context failures onto the service error
// taxonomy. Anything unrecognized is reported as unavailable rather than
// leaked as a driver error.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrUnavailable
	}

	// Service errors pass through transaction closures untouched.
	for _, known := range []error{
		ErrNotFound, ErrAccessDenied, ErrAlreadyExists, ErrAlreadyMember,
		ErrUserNotFound, ErrInvalidArgument, ErrInvalidParent, ErrConflict,
		ErrUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	return ErrUnavailable
}
