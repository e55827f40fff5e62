package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("record: %w", Validation("amount", "must be positive"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestValidationNamesField(t *testing.T) {
	err := Validation("type", "must be deposit or withdrawal")

	assert.Equal(t, "type", err.Field)
	assert.Equal(t, "type: must be deposit or withdrawal", err.Error())
}

func TestStorageUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("insert transaction", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindStorage, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("player", 7)))
}
