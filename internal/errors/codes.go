package errors

// Error code constants surfaced to the embedding view.
// Format: CATEGORY_SPECIFIC_DETAIL; the view maps codes to inline messages
// or toasts.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationDuplicateColor  = "VALIDATION_DUPLICATE_COLOR"    // color used by another variant
	ValidationColorChoice     = "VALIDATION_COLOR_CHOICE"       // color id xor custom name violated
	ValidationOrderOutOfRange = "VALIDATION_ORDER_OUT_OF_RANGE" // picture order outside 1..N
	ValidationIncomplete      = "VALIDATION_INCOMPLETE"         // partial variant blocks submit

	// ==================== Staging (STAGING_) ====================
	StagingVariantNotFound = "STAGING_VARIANT_NOT_FOUND"
	StagingPictureNotFound = "STAGING_PICTURE_NOT_FOUND"
	StagingVariantDeleted  = "STAGING_VARIANT_DELETED"
	StagingColorImmutable  = "STAGING_COLOR_IMMUTABLE" // persisted variant color is fixed
	StagingNotHydrated     = "STAGING_NOT_HYDRATED"
	StagingFlushInProgress = "STAGING_FLUSH_IN_PROGRESS"

	// ==================== Backend (BACKEND_) ====================
	BackendUnavailable  = "BACKEND_UNAVAILABLE"   // network failure
	BackendRejected     = "BACKEND_REJECTED"      // 400-class refusal
	BackendUnauthorized = "BACKEND_UNAUTHORIZED"  // CSRF token rejected
	BackendNotFound     = "BACKEND_NOT_FOUND"     // entity vanished server-side
	BackendError        = "BACKEND_ERROR"         // 5xx
	BackendPartialFlush = "BACKEND_PARTIAL_FLUSH" // some batch operations failed

	// ==================== Fallback ====================
	InternalError = "INTERNAL_ERROR"
)
