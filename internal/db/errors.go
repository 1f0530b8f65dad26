package db

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned when a document is not found in Firestore.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when creating a document whose ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrForbidden is returned when the caller does not own the document it mutates.
	ErrForbidden = errors.New("caller does not own this document")
	// ErrPermissionDenied is returned when Firestore rejects a read or write.
	ErrPermissionDenied = errors.New("permission denied by store")
)

// PermissionError carries the denied operation and its target for diagnostic logging.
type PermissionError struct {
	Op     string // e.g. "list", "create", "update"
	Target string // collection or document path
	Err    error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, ErrPermissionDenied)
}

func (e *PermissionError) Unwrap() []error {
	return []error{ErrPermissionDenied, e.Err}
}

// translate maps gRPC status codes from Firestore to package errors.
// Errors with other codes are wrapped with op and target for context.
func translate(err error, op, target string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s %s: %w", op, target, ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s %s: %w", op, target, ErrAlreadyExists)
	case codes.PermissionDenied:
		return &PermissionError{Op: op, Target: target, Err: err}
	default:
		return fmt.Errorf("failed to %s %s: %w", op, target, err)
	}
}
