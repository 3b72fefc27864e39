package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/idp/internal/errors"
)

func TestErrors_Wrapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "ErrInvalidConfig",
			err:         ErrInvalidConfig,
			expectedMsg: "invalid issuance config",
		},
		{
			name:        "ErrMarshal",
			err:         ErrMarshal,
			expectedMsg: "issuance config marshalling failed",
		},
		{
			name:        "ErrConfigAbsent",
			err:         ErrConfigAbsent,
			expectedMsg: "issuance config absent",
		},
		{
			name:        "ErrInstanceNotFound",
			err:         ErrInstanceNotFound,
			expectedMsg: "instance not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.expectedMsg)
		})
	}
}

func TestErrors_Types(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedType error
	}{
		{
			name:         "ErrInvalidConfig_IsInvalidInput",
			err:          ErrInvalidConfig,
			expectedType: apperrors.ErrInvalidInput,
		},
		{
			name:         "ErrConfigAbsent_IsNotFound",
			err:          ErrConfigAbsent,
			expectedType: apperrors.ErrNotFound,
		},
		{
			name:         "ErrInstanceNotFound_IsNotFound",
			err:          ErrInstanceNotFound,
			expectedType: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperrors.Is(tt.err, tt.expectedType),
				"expected %v to be of type %v", tt.err, tt.expectedType)
		})
	}
}

func TestErrMarshal_NotInvalidInput(t *testing.T) {
	// A malformed persisted record is a terminal condition, not a caller
	// input problem; handlers decide per call site how to surface it.
	assert.False(t, apperrors.Is(ErrMarshal, apperrors.ErrInvalidInput))
	assert.False(t, apperrors.Is(ErrMarshal, apperrors.ErrNotFound))
}
