package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortHash(t *testing.T) {
	assert.Equal(t, "5d41402abc4b", shortHash("5d41402abc4b2a76b9719d911017c592"))
	assert.Equal(t, "short", shortHash("short"))
	assert.Equal(t, "", shortHash(""))
	assert.Equal(t, "exactly12chr", shortHash("exactly12chr"))
}
