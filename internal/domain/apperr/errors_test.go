package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_WrapsUnclassified(t *testing.T) {
	err := Store(errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_KeepsKind(t *testing.T) {
	err := Store(ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStoreFailure)
	assert.Nil(t, Store(nil))
}

func TestInvalid(t *testing.T) {
	err := Invalid("email %s", "is required")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: email is required", err.Error())
}
