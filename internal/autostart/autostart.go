// Package autostart registers the daemon as a login item: a LaunchAgent on
// macOS, an XDG autostart desktop entry on Linux. The settings record's
// autostart flag is synced with the actual presence of this file.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const launchAgentLabel = "com.viska.autostart"

type Manager struct {
	goos     string
	homeDir  string
	execPath string
}

func NewManager(execPath string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}
	return newManager(currentGOOS(), homeDir, execPath), nil
}

func newManager(goos, homeDir, execPath string) *Manager {
	return &Manager{goos: goos, homeDir: homeDir, execPath: execPath}
}

// Enabled reports whether the login item currently exists on disk.
func (m *Manager) Enabled() bool {
	path, err := m.entryPath()
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// Enable writes the login item, replacing any previous one.
func (m *Manager) Enable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart directory: %w", err)
	}

	data, err := m.entryContent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write login item: %w", err)
	}
	return nil
}

// Disable removes the login item; a missing item is not an error.
func (m *Manager) Disable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove login item: %w", err)
	}
	return nil
}

func (m *Manager) entryPath() (string, error) {
	switch m.goos {
	case "darwin":
		return filepath.Join(m.homeDir, "Library", "LaunchAgents", launchAgentLabel+".plist"), nil
	case "linux":
		return filepath.Join(m.homeDir, ".config", "autostart", "viska.desktop"), nil
	default:
		return "", fmt.Errorf("autostart is not supported on %s", m.goos)
	}
}

func (m *Manager) entryContent() ([]byte, error) {
	if m.goos == "darwin" {
		return m.launchAgentContent()
	}
	return m.desktopEntryContent(), nil
}

func (m *Manager) desktopEntryContent() []byte {
	return []byte(fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=viska
Comment=Push-to-talk dictation
Exec=%s
X-GNOME-Autostart-enabled=true
`, m.execPath))
}
