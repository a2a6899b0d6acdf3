package keytracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyStateTrackerEdges(t *testing.T) {
	var k KeyStateTracker

	require.False(t, k.Update(false))
	require.True(t, k.Update(true))
	require.False(t, k.Update(true))
	require.False(t, k.Update(false))
	require.True(t, k.Update(true))
}
