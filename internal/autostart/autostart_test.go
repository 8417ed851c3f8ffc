package autostart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnableDisableDesktopEntry(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	m := newManager("linux", home, "/usr/local/bin/viska")

	require.False(t, m.Enabled())
	require.NoError(t, m.Enable())
	require.True(t, m.Enabled())

	data, err := os.ReadFile(filepath.Join(home, ".config", "autostart", "viska.desktop"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Exec=/usr/local/bin/viska")
	require.Contains(t, string(data), "[Desktop Entry]")

	require.NoError(t, m.Disable())
	require.False(t, m.Enabled())
}

func TestEnableWritesLaunchAgentPlist(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	m := newManager("darwin", home, "/Applications/viska")

	require.NoError(t, m.Enable())
	require.True(t, m.Enabled())

	data, err := os.ReadFile(filepath.Join(home, "Library", "LaunchAgents", "com.viska.autostart.plist"))
	require.NoError(t, err)
	require.Contains(t, string(data), "com.viska.autostart")
	require.Contains(t, string(data), "/Applications/viska")
	require.Contains(t, string(data), "RunAtLoad")
}

func TestDisableMissingEntryIsNoError(t *testing.T) {
	t.Parallel()

	m := newManager("linux", t.TempDir(), "/usr/local/bin/viska")
	require.NoError(t, m.Disable())
}

func TestUnsupportedOSFails(t *testing.T) {
	t.Parallel()

	m := newManager("windows", t.TempDir(), `C:\viska.exe`)
	require.Error(t, m.Enable())
	require.False(t, m.Enabled())
}
