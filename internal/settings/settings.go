// Package settings persists the small per-user settings record. The record is
// loaded once at startup and overwritten wholesale on every change; there is
// no versioning and no concurrent writer.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vhallberg/viska/internal/platform"
)

// SendMode selects the keystroke appended after typed text when auto-send is
// in effect.
const (
	SendModeEnter    = "enter"
	SendModeCmdEnter = "cmd+enter"
)

type Settings struct {
	// Hotkey is the primary push-to-talk hotkey spec, e.g. "f8" or "ctrl+shift+space".
	Hotkey string `json:"hotkey"`
	// AutoSendKey is the secondary hotkey; recordings started from it get a
	// send keystroke appended. Empty disables it.
	AutoSendKey string `json:"auto_send_key"`
	SendMode    string `json:"send_mode"`
	Language    string `json:"language"`
	UseLLM      bool   `json:"use_llm"`
	// Instruction is the custom correction instruction passed to the chat
	// model when UseLLM is set.
	Instruction string `json:"instruction"`
	Autostart   bool   `json:"autostart"`
}

func Default() Settings {
	return Settings{
		Hotkey:   "f8",
		SendMode: SendModeCmdEnter,
		Language: "sv",
	}
}

// Load reads the settings record from path, filling absent fields with
// defaults. A missing file yields the default record.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return normalize(s), nil
}

// Save overwrites the settings record at path.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(normalize(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// DefaultPath resolves the fixed per-user settings location.
func DefaultPath() (string, error) {
	return platform.SettingsPath()
}

func normalize(s Settings) Settings {
	s.Hotkey = strings.TrimSpace(strings.ToLower(s.Hotkey))
	if s.Hotkey == "" {
		s.Hotkey = Default().Hotkey
	}
	s.AutoSendKey = strings.TrimSpace(strings.ToLower(s.AutoSendKey))
	s.Language = strings.TrimSpace(strings.ToLower(s.Language))
	if s.Language == "" {
		s.Language = Default().Language
	}
	if s.SendMode != SendModeEnter && s.SendMode != SendModeCmdEnter {
		s.SendMode = Default().SendMode
	}
	return s
}
