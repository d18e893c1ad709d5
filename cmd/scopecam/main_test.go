package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"capture-dir", "device", "zooms", "fullscreen", "log-level", "json-logs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	require.NoError(t, cmd.ParseFlags([]string{"--zooms", "4,10", "--fullscreen"}))
	assert.True(t, cmd.Flags().Changed("zooms"))
	assert.True(t, cmd.Flags().Changed("fullscreen"))
	assert.False(t, cmd.Flags().Changed("device"))
}
