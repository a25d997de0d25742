package biz

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/eddienguyen/la-wed-be/internal/pkg/errors"
)

var (
	// ErrMediaNotFound is returned for unknown or soft-deleted asset ids.
	ErrMediaNotFound = errors.New("media not found")

	// ErrUnsupportedMediaType is returned when the declared content type is
	// neither an image nor a video.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidCategory is returned for a category outside the closed set.
	ErrInvalidCategory = errors.New("invalid media category")

	// ErrStoreNotConfigured is returned when the object store credentials
	// are absent. Callers can probe via ObjectStore.IsConfigured and skip
	// media features instead of hard-failing.
	ErrStoreNotConfigured = errors.New("object storage is not configured")
)

// ValidationReason classifies why an upload was rejected before any
// processing or store call.
type ValidationReason string

const (
	ReasonTypeNotAllowed ValidationReason = "TYPE_NOT_ALLOWED"
	ReasonSizeExceeded   ValidationReason = "SIZE_EXCEEDED"
	ReasonEmptyBuffer    ValidationReason = "EMPTY_BUFFER"
)

// ValidationError rejects an upload at the precondition gate. It is never
// retried and has no downstream side effects.
type ValidationError struct {
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("validation failed (%s)", e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProcessingError wraps a decode/encode/metadata-probe failure. It fails the
// whole upload; objects already written for that upload are compensated by
// the orchestrator.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// StorageError wraps an object-store transport or credential failure on a
// single-item call. Batch calls convert per-item storage errors into failed
// entries instead of aborting.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s failed for key=%s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ReorderError reports the ids that blocked a bulk reorder. No display
// order is changed when it is returned.
type ReorderError struct {
	MissingIDs []string
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder aborted, unknown media ids: %s", strings.Join(e.MissingIDs, ", "))
}

// ToAppError translates a pipeline error into a coded AppError so transport
// layers and CLI tools can map it to a status without inspecting types.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		switch ve.Reason {
		case ReasonTypeNotAllowed:
			return apperrors.Wrap(err, apperrors.ErrMediaInvalidFileType)
		case ReasonSizeExceeded:
			return apperrors.Wrap(err, apperrors.ErrMediaFileTooLarge)
		case ReasonEmptyBuffer:
			return apperrors.Wrap(err, apperrors.ErrMediaEmptyFile)
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidParams)
	}

	var re *ReorderError
	if errors.As(err, &re) {
		return apperrors.Wrap(err, apperrors.ErrMediaReorderConflict)
	}

	var pe *ProcessingError
	if errors.As(err, &pe) {
		return apperrors.Wrap(err, apperrors.ErrMediaProcessingFailed)
	}

	var se *StorageError
	if errors.As(err, &se) {
		return apperrors.Wrap(err, apperrors.ErrMediaStorageFailed)
	}

	switch {
	case errors.Is(err, ErrMediaNotFound):
		return apperrors.Wrap(err, apperrors.ErrMediaNotFound)
	case errors.Is(err, ErrUnsupportedMediaType):
		return apperrors.Wrap(err, apperrors.ErrMediaInvalidFileType)
	case errors.Is(err, ErrInvalidCategory):
		return apperrors.Wrap(err, apperrors.ErrMediaInvalidCategory)
	case errors.Is(err, ErrStoreNotConfigured):
		return apperrors.Wrap(err, apperrors.ErrMediaStoreUnconfigured)
	}

	return apperrors.Wrap(err, apperrors.ErrInternalServer)
}
