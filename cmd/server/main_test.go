package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	t.Setenv("MAX_CLIENTS", "many")

	err := run()
	require.Error(t, err, "run must report failures instead of exiting")
	assert.Contains(t, err.Error(), "invalid configuration")
}
