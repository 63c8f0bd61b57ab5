package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StorageError{Op: "list projects", Cause: cause}

	assert.Equal(t, "storage error during list projects: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "list projects", storageErr.Op)
}

func TestPurgeRuns_RejectsNonPositiveRetention(t *testing.T) {
	db := &DB{}

	for _, days := range []int{0, -1, -90} {
		_, err := db.PurgeRuns(context.Background(), days)
		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Contains(t, storageErr.Error(), "retention must be positive")
	}
}
