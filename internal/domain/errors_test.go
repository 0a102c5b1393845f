package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceNotFoundError(t *testing.T) {
	err := fmt.Errorf("collaborative: %w", NewReferenceNotFound(42, "ratings"))

	assert.True(t, errors.Is(err, ErrReferenceNotFound))
	assert.Equal(t, "collaborative: reference movie not found: movie 42 not in ratings", err.Error())

	var rnf *ReferenceNotFoundError
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, 42, rnf.MovieID)
	assert.Equal(t, "ratings", rnf.Dataset)
}
