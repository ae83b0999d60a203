package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := Validation(errors.New("bad date"), "date_of_lecture must be YYYY-MM-DD")
	got := FromError(wrapped)
	assert.Same(t, wrapped, got)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, "VALIDATION_ERROR", got.Code)
}

func TestFromErrorHidesUnknownCauses(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, ErrInternal.Message, got.Message)
	assert.ErrorIs(t, got, sql.ErrConnDone)
	assert.Nil(t, FromError(nil))
}

func TestCloneLeavesSentinelUntouched(t *testing.T) {
	clone := Clone(ErrNotFound, "report not found")
	assert.Equal(t, "report not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.Equal(t, ErrNotFound.Status, clone.Status)
	assert.Equal(t, ErrNotFound.Message, Clone(ErrNotFound, "").Message)
	assert.Nil(t, Clone(nil, "x"))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "failed to create report: boom", Internal(errors.New("boom"), "failed to create report").Error())
	assert.Equal(t, "unauthorized", ErrUnauthorized.Error())
}
