package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/farol/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestMalformedInputError(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		err := pkgerrors.NewMissingColumnError("source", "ID")
		assert.Equal(t, `malformed source roster: missing column "ID"`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrMalformedInput))
		assert.True(t, pkgerrors.IsMalformedInput(err))
	})

	t.Run("message only", func(t *testing.T) {
		err := &pkgerrors.MalformedInputError{Roster: "target", Message: "empty header"}
		assert.Equal(t, "malformed target roster: empty header", err.Error())
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("normalizing: %w", pkgerrors.NewMissingColumnError("target", "first_name"))
		assert.True(t, pkgerrors.IsMalformedInput(wrapped))
		assert.False(t, pkgerrors.IsExternalFetch(wrapped))
	})
}

func TestExternalFetchError(t *testing.T) {
	t.Run("after retries", func(t *testing.T) {
		cause := errors.New("backend error")
		err := pkgerrors.NewExternalFetchError("warehouse", 5, cause)
		assert.Contains(t, err.Error(), "warehouse")
		assert.Contains(t, err.Error(), "after 5 attempts")
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, pkgerrors.IsExternalFetch(err))
	})

	t.Run("single attempt", func(t *testing.T) {
		err := pkgerrors.NewExternalFetchError("places", 1, errors.New("login failed"))
		assert.NotContains(t, err.Error(), "attempts")
		assert.Contains(t, err.Error(), "login failed")
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "group", Message: "cannot be empty"}
		assert.Equal(t, "validation failed for field group: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "bad policy")
		assert.Equal(t, "validation failed: bad policy", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/upload.csv", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/data/upload.csv")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("rename", "historico_geral.csv", errors.New("busy"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})
}

func TestParseError(t *testing.T) {
	baseErr := errors.New("EOF")
	err := pkgerrors.WrapParse("yaml", "policy.yaml", baseErr)
	parseErr, ok := err.(*pkgerrors.ParseError)
	require.True(t, ok)
	assert.Equal(t, "yaml", parseErr.Format)
	assert.Contains(t, err.Error(), "policy.yaml")
	assert.Equal(t, baseErr, parseErr.Unwrap())

	assert.Equal(t, "csv parse error: bad quote", pkgerrors.NewParseError("csv", "", "bad quote", nil).Error())
	assert.Nil(t, pkgerrors.WrapParse("csv", "x", nil))
}

func TestDeliveryError(t *testing.T) {
	baseErr := errors.New("timeout")
	err := pkgerrors.NewDeliveryError("exclude", "confirm", baseErr)
	assert.Contains(t, err.Error(), "exclude")
	assert.Contains(t, err.Error(), "confirm")
	assert.True(t, pkgerrors.IsDelivery(err))
	assert.Equal(t, baseErr, errors.Unwrap(err))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("places", "email is required", nil)
	assert.Contains(t, err.Error(), "places")
	assert.Contains(t, err.Error(), "email is required")
	assert.Nil(t, err.Unwrap())
}

func TestJoin(t *testing.T) {
	assert.Nil(t, pkgerrors.Join(nil, nil))

	joined := pkgerrors.Join(pkgerrors.NewMissingColumnError("source", "ID"), pkgerrors.ErrCanceled)
	assert.True(t, pkgerrors.IsMalformedInput(joined))
	assert.True(t, pkgerrors.IsCanceled(joined))
}
