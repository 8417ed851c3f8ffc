package autostart

import (
	"fmt"
	"path/filepath"
	"runtime"

	"howett.net/plist"
)

type launchAgent struct {
	Label             string    `plist:"Label"`
	ProgramArguments  []string  `plist:"ProgramArguments"`
	RunAtLoad         bool      `plist:"RunAtLoad"`
	KeepAlive         keepAlive `plist:"KeepAlive"`
	StandardOutPath   string    `plist:"StandardOutPath"`
	StandardErrorPath string    `plist:"StandardErrorPath"`
}

type keepAlive struct {
	// Restart after crashes, not after clean exits.
	SuccessfulExit bool `plist:"SuccessfulExit"`
}

func (m *Manager) launchAgentContent() ([]byte, error) {
	logDir := filepath.Join(m.homeDir, "Library", "Logs")
	agent := launchAgent{
		Label:             launchAgentLabel,
		ProgramArguments:  []string{m.execPath},
		RunAtLoad:         true,
		KeepAlive:         keepAlive{SuccessfulExit: false},
		StandardOutPath:   filepath.Join(logDir, "viska.out.log"),
		StandardErrorPath: filepath.Join(logDir, "viska.err.log"),
	}

	data, err := plist.MarshalIndent(agent, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode launch agent plist: %w", err)
	}
	return data, nil
}

func currentGOOS() string {
	return runtime.GOOS
}
