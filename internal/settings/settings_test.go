package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	want := Settings{
		Hotkey:      "ctrl+shift+space",
		AutoSendKey: "f9",
		SendMode:    SendModeEnter,
		Language:    "en",
		UseLLM:      true,
		Instruction: "fix punctuation",
		Autostart:   true,
	}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	first := Default()
	first.Instruction = "numbers as digits"
	require.NoError(t, Save(path, first))

	second := Default()
	second.Language = "de"
	require.NoError(t, Save(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, second, got)
	require.Empty(t, got.Instruction)
}

func TestLoadNormalizesFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{"hotkey":" F8 ","send_mode":"shift+enter","language":"SV"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "f8", got.Hotkey)
	require.Equal(t, SendModeCmdEnter, got.SendMode)
	require.Equal(t, "sv", got.Language)
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
