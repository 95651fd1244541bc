package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrDocumentNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "document")
}

func NewErrAttachmentNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "attachment")
}

// ErrInvalidTransition rejects an action attempted from a status that
// forbids it. It is surfaced to the caller, never silently coerced.
type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(id uuid.UUID, from, action string) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("document %s cannot %s from status %q", id, action, from)}
}

// ErrValidationRejected rejects a malformed action before any state
// mutation: a file without a receipt or a report without a reason.
type ErrValidationRejected struct {
	error
}

func NewErrValidationRejected(message string) *ErrValidationRejected {
	return &ErrValidationRejected{fmt.Errorf("bad request: %s", message)}
}

type ErrCaptureAlreadyRunning struct {
	error
}

func NewErrCaptureAlreadyRunning() *ErrCaptureAlreadyRunning {
	return &ErrCaptureAlreadyRunning{fmt.Errorf("a capture job is already running")}
}

type ErrCaptureNotRunning struct {
	error
}

func NewErrCaptureNotRunning() *ErrCaptureNotRunning {
	return &ErrCaptureNotRunning{fmt.Errorf("no capture job is running")}
}

type ErrUnauthorized struct {
	error
}

func NewErrUnauthorized() *ErrUnauthorized {
	return &ErrUnauthorized{fmt.Errorf("invalid username or password")}
}
