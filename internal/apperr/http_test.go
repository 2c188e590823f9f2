package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"sctracker-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFiberStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrNotFound, fiber.StatusNotFound},
		{apperr.ErrInvalidState, fiber.StatusConflict},
		{apperr.ErrInsufficientStock, fiber.StatusBadRequest},
		{apperr.ErrInvalidArgument, fiber.StatusBadRequest},
		{apperr.ErrExternalUnavailable, fiber.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		fe, ok := apperr.ToFiber(tc.err).(*fiber.Error)
		require.True(t, ok)
		assert.Equal(t, tc.status, fe.Code, tc.err.Error())
	}
}

func TestToFiberWrappedErrorKeepsMapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: job 7 already collected", apperr.ErrInvalidState)

	fe, ok := apperr.ToFiber(wrapped).(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
	assert.Contains(t, fe.Message, "job 7")
}

func TestToFiberUnknownErrorHidesDetails(t *testing.T) {
	fe, ok := apperr.ToFiber(errors.New("pq: connection refused")).(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusInternalServerError, fe.Code)
	assert.Equal(t, "Unexpected server error", fe.Message)
}

func TestToFiberNil(t *testing.T) {
	assert.NoError(t, apperr.ToFiber(nil))
}
