package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledReturnsInputUnchanged(t *testing.T) {
	Init(false)
	t.Cleanup(func() { Init(false) })

	require.False(t, Enabled())
	require.Equal(t, "plain", Header("plain"))
	require.Equal(t, "plain", Info("plain"))
	require.Equal(t, "plain", Muted("plain"))
	require.Equal(t, "plain", Error("plain"))
}

func TestEnabledEmitsANSICodes(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	Init(true)
	t.Cleanup(func() { Init(false) })

	require.True(t, Enabled())
	require.True(t, strings.Contains(Error("boom"), "\x1b["))
	require.True(t, strings.Contains(Error("boom"), "boom"))
}

func TestNoColorOverridesEnable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	Init(true)
	t.Cleanup(func() { Init(false) })

	require.False(t, Enabled())
	require.Equal(t, "plain", Header("plain"))
}
