package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrDocumentUnreadable   = errors.New("document unreadable")
	ErrDocumentLocked       = errors.New("document locked by another run")
	ErrUnparseableSelection = errors.New("unparseable selection")
	ErrSegmentSkipped       = errors.New("segment skipped")
	ErrOracle               = errors.New("oracle failure")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError means the oracle could not be reached or refused the call
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrOracle
}

// MalformedResponse means the oracle answered with something unusable
type MalformedResponse struct {
	Backend string
	Reason  string
	Raw     string
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Backend, e.Reason)
}

func (e *MalformedResponse) Is(target error) bool {
	return target == ErrOracle
}

// SkipReason classifies why a selected segment was not extracted
type SkipReason string

const (
	SkipNotFound     SkipReason = "not found"
	SkipInvalidRange SkipReason = "invalid line numbers"
	SkipDuplicate    SkipReason = "already extracted"
	SkipOverlap      SkipReason = "overlaps an extracted segment"
	SkipNaming       SkipReason = "naming failed"
	SkipWrite        SkipReason = "note creation failed"
	SkipInsert       SkipReason = "back-reference insertion failed"
)

// SegmentError reports one selected segment that was skipped
type SegmentError struct {
	SegmentID int
	Reason    SkipReason
	Err       error
}

func (e *SegmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("segment %d: %s: %v", e.SegmentID, e.Reason, e.Err)
	}
	return fmt.Sprintf("segment %d: %s", e.SegmentID, e.Reason)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

func (e *SegmentError) Is(target error) bool {
	return target == ErrSegmentSkipped
}

// PersistError means the source note could not be written back. Notes
// already created stay on disk.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to update original note %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
