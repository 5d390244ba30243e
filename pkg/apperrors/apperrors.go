package apperrors

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Services wrap these with context; handlers map them
// to HTTP responses with errors.Is.

var (
	// ErrNotFound indicates a referenced entity is absent
	ErrNotFound = errors.New("not found")

	// ErrInvalidRole indicates a role precondition was violated
	ErrInvalidRole = errors.New("invalid role")

	// ErrDuplicate indicates a uniqueness constraint was violated
	ErrDuplicate = errors.New("duplicate")

	// ErrForbidden indicates the caller is not the authorized party
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a transition attempted from a terminal state
	ErrConflict = errors.New("conflict")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error naming the missing resource
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidRoleError creates an invalid role error naming the offending field
func InvalidRoleError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidRole)
}

// DuplicateError creates a duplicate error with context
func DuplicateError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrDuplicate)
	}
	return ErrDuplicate
}

// ForbiddenError creates a forbidden error with context
func ForbiddenError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrForbidden)
	}
	return ErrForbidden
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrConflict)
	}
	return ErrConflict
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
