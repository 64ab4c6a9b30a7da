package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateusz58/catalog-staging/internal/app/service"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil", nil, InternalError},
		{"duplicate color", service.ErrDuplicateColor, ValidationDuplicateColor},
		{"color choice", service.ErrInvalidColorChoice, ValidationColorChoice},
		{"order out of range", fmt.Errorf("%w: 9 not in 1..3", service.ErrOrderOutOfRange), ValidationOrderOutOfRange},
		{"variant not found", service.ErrVariantNotFound, StagingVariantNotFound},
		{"picture not found", service.ErrPictureNotFound, StagingPictureNotFound},
		{"variant deleted", service.ErrVariantDeleted, StagingVariantDeleted},
		{"color immutable", service.ErrVariantPersisted, StagingColorImmutable},
		{"not hydrated", service.ErrNotHydrated, StagingNotHydrated},
		{"flush in progress", service.ErrFlushInProgress, StagingFlushInProgress},
		{"network", fmt.Errorf("delete variant: %w", catalogapi.ErrNetwork), BackendUnavailable},
		{"unauthorized", catalogapi.ErrUnauthorized, BackendUnauthorized},
		{"not found", catalogapi.ErrNotFound, BackendNotFound},
		{"rejected", catalogapi.ErrInvalidRequest, BackendRejected},
		{"server error", catalogapi.ErrServerError, BackendError},
		{"unknown", stderrors.New("something else"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseErrorPartialFlush(t *testing.T) {
	err := &service.FlushError{Failures: []service.FlushFailure{
		{Phase: service.PhaseVariantDeletes, Op: "variant 11", Err: stderrors.New("503")},
		{Phase: service.PhasePictureUploads, Op: "upload 2 pictures to variant 10", Err: stderrors.New("timeout")},
	}}

	info := ParseError(err)
	assert.Equal(t, BackendPartialFlush, info.Code)
	assert.Contains(t, info.Message, "2 operations failed")
	assert.Contains(t, info.Message, "not rolled back")
}
