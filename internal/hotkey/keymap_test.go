package hotkey

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.design/x/hotkey"
)

func TestParseBareKey(t *testing.T) {
	t.Parallel()

	mods, key, err := Parse("f8")
	require.NoError(t, err)
	require.Empty(t, mods)
	require.Equal(t, hotkey.KeyF8, key)
}

func TestParseModifierCombination(t *testing.T) {
	t.Parallel()

	mods, key, err := Parse("ctrl+shift+space")
	require.NoError(t, err)
	require.Equal(t, []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, mods)
	require.Equal(t, hotkey.KeySpace, key)
}

func TestParseNormalizesCaseAndSpacing(t *testing.T) {
	t.Parallel()

	mods, key, err := Parse(" Ctrl + D ")
	require.NoError(t, err)
	require.Equal(t, []hotkey.Modifier{hotkey.ModCtrl}, mods)
	require.Equal(t, hotkey.KeyD, key)
}

func TestParseKeyAliases(t *testing.T) {
	t.Parallel()

	_, enter, err := Parse("enter")
	require.NoError(t, err)
	_, ret, err2 := Parse("return")
	require.NoError(t, err2)
	require.Equal(t, enter, ret)
}

func TestParseRejectsUnknownSpecs(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"", "   ", "bogus", "hyper+k", "ctrl+"} {
		_, _, err := Parse(spec)
		require.Error(t, err, "spec %q", spec)
	}
}
