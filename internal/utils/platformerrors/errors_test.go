package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeToHTTPStatus(tt.errType))
		})
	}
}

func TestNewError_CarriesRequestIDAndUnwraps(t *testing.T) {
	sentinel := errors.New("disk on fire")
	ctx := WithRequestID(context.Background(), "req-42")

	err := NewError(ctx, LayerDomain, ErrorTypeInternal, "store asset", sentinel, "abc")

	assert.Equal(t, "req-42", err.RequestID)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "[domain][INTERNAL][abc] store asset")
}

func TestAsError_KeepsInnerType(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeNotFound, "video not found", nil, "id-1")

	wrapped := AsError(ctx, LayerDomain, inner, "load video")

	assert.True(t, IsErrorType(wrapped, ErrorTypeNotFound))
	assert.Equal(t, "id-1", wrapped.UUID)

	plain := AsError(ctx, LayerDomain, errors.New("boom"), "load video")
	assert.True(t, IsErrorType(plain, ErrorTypeInternal))
	assert.Nil(t, AsError(ctx, LayerDomain, nil, "noop"))
}
