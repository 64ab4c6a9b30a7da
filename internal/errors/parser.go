package errors

import (
	"errors"
	"fmt"

	"github.com/mateusz58/catalog-staging/internal/app/service"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
)

// ErrorInfo is an error translated for display: a stable code for the view
// to map and a message an operator can act on.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts staging and backend errors into user-facing
// information. Validation errors stay inline and specific; backend errors
// collapse to an aggregate toast-style message.
func ParseError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalError, Message: "an unexpected error occurred"}
	}

	// staging validation errors; surfaced inline, input reverted by the view
	switch {
	case errors.Is(err, service.ErrDuplicateColor):
		return ErrorInfo{Code: ValidationDuplicateColor, Message: "this color is already used by another variant"}
	case errors.Is(err, service.ErrInvalidColorChoice):
		return ErrorInfo{Code: ValidationColorChoice, Message: "choose an existing color or enter a custom name, not both"}
	case errors.Is(err, service.ErrOrderOutOfRange):
		return ErrorInfo{Code: ValidationOrderOutOfRange, Message: "picture position must be between 1 and the picture count"}
	case errors.Is(err, service.ErrVariantNotFound):
		return ErrorInfo{Code: StagingVariantNotFound, Message: "this variant no longer exists on the form"}
	case errors.Is(err, service.ErrPictureNotFound):
		return ErrorInfo{Code: StagingPictureNotFound, Message: "this picture no longer exists on the form"}
	case errors.Is(err, service.ErrVariantDeleted):
		return ErrorInfo{Code: StagingVariantDeleted, Message: "this variant is marked for deletion; undo the deletion first"}
	case errors.Is(err, service.ErrVariantPersisted):
		return ErrorInfo{Code: StagingColorImmutable, Message: "the color of a saved variant cannot be changed"}
	case errors.Is(err, service.ErrNotHydrated):
		return ErrorInfo{Code: StagingNotHydrated, Message: "the form data has not loaded yet"}
	case errors.Is(err, service.ErrFlushInProgress):
		return ErrorInfo{Code: StagingFlushInProgress, Message: "saving is already in progress"}
	}

	// a partially failed flush: list what failed, hide nothing
	var flushErr *service.FlushError
	if errors.As(err, &flushErr) {
		return ErrorInfo{
			Code: BackendPartialFlush,
			Message: fmt.Sprintf(
				"%d operations failed while saving; already-applied changes were not rolled back, review and retry",
				len(flushErr.Failures)),
		}
	}

	// backend API errors
	switch {
	case errors.Is(err, catalogapi.ErrNetwork):
		return ErrorInfo{Code: BackendUnavailable, Message: "could not reach the catalog backend"}
	case errors.Is(err, catalogapi.ErrUnauthorized):
		return ErrorInfo{Code: BackendUnauthorized, Message: "the session token was rejected; reload the page"}
	case errors.Is(err, catalogapi.ErrNotFound):
		return ErrorInfo{Code: BackendNotFound, Message: "the component or variant no longer exists"}
	case errors.Is(err, catalogapi.ErrInvalidRequest):
		return ErrorInfo{Code: BackendRejected, Message: "the backend rejected the request"}
	case errors.Is(err, catalogapi.ErrServerError):
		return ErrorInfo{Code: BackendError, Message: "the catalog backend reported an internal error"}
	}

	return ErrorInfo{Code: InternalError, Message: "an unexpected error occurred"}
}
