package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponseError(t *testing.T) {
	require.NoError(t, NewResponseError(http.StatusOK, "", nil))

	err := NewResponseError(http.StatusUnprocessableEntity, "", map[string]string{"code": "bad"})
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bad", ve.Field("code"))

	err = NewResponseError(http.StatusServiceUnavailable, "", nil)
	require.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "Service Unavailable", DetailOf(err))
	assert.True(t, Retryable(err))

	err = NewResponseError(http.StatusForbidden, "", map[string]string{"role": "missing"})
	assert.Equal(t, "role: missing", DetailOf(err))
}

func TestHelpers_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("load profile: %w", NewResponseError(http.StatusUnauthorized, "Token has expired", nil))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, "Token has expired", DetailOf(err))
	assert.False(t, Retryable(err))
	assert.Contains(t, err.Error(), "unauthorized (401): Token has expired")
}

func TestStatusOf_NonResponseErrors(t *testing.T) {
	assert.Zero(t, StatusOf(errors.New("x")))
	assert.Zero(t, StatusOf(fmt.Errorf("%w: dial tcp", ErrUnavailable)))
	assert.Empty(t, DetailOf(nil))
}
