package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_IsClassified(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving task: %w", StorageError("create task", cause))

	assert.True(t, IsDomainError(err, ErrCodeStorage))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage: create task: disk full")
}

func TestError_IsMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrTaskNotFound)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.True(t, IsDomainError(err, ErrCodeNotFound))
	assert.False(t, errors.Is(err, ErrNotificationNotFound))
}
