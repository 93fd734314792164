package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrExtraction", ErrExtraction},
		{"ErrService", ErrService},
		{"ErrMalformedKey", ErrMalformedKey},
		{"ErrUnknownQuestion", ErrUnknownQuestion},
		{"ErrJobFailed", ErrJobFailed},
		{"ErrWaitTimeout", ErrWaitTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrJobFailed, ErrWaitTimeout))
	assert.False(t, errors.Is(ErrMalformedKey, ErrUnknownQuestion))
	assert.False(t, errors.Is(ErrService, ErrExtraction))
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("job batch_abc ended as %s: %w", JobStatusExpired, ErrJobFailed)

	assert.True(t, errors.Is(wrapped, ErrJobFailed))
	assert.Contains(t, wrapped.Error(), "expired")
}
