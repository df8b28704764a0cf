//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLineHelp(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)

	out, err := tf.Run("--help")
	require.NoError(t, err)

	assert.Contains(t, out, "mapsexplorer")
	assert.Contains(t, out, "search")
	assert.Contains(t, out, "config")
	assert.Contains(t, out, "--endpoint")
	assert.Contains(t, out, "--log-file")
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should show the header")

	// short help is always visible
	require.True(t, tf.SeePlain("switch panel"), "Should show short help")

	require.NoError(t, tf.SwitchPanel())
	require.NoError(t, tf.SendKeys(KeyHelp))
	require.True(t, tf.SeePlain("previous panel"), "Should show full help")
	require.True(t, tf.SeePlain("zoom out"), "Should list the map keys")
}
