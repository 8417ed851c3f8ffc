// Package typing injects transcript text into the focused application by
// writing it to the clipboard and synthesizing a paste keystroke, then
// restoring the previous clipboard contents.
package typing

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"

	"github.com/vhallberg/viska/internal/settings"
)

const (
	clipboardSettle = 80 * time.Millisecond
	pasteSettle     = 120 * time.Millisecond
	// sendSettle lets the focused app process the pasted text before the
	// confirm keystroke arrives.
	sendSettle = 300 * time.Millisecond
)

type Injector struct {
	goos string
}

func NewInjector() *Injector {
	return &Injector{goos: runtime.GOOS}
}

// Type pastes text into the focused application.
func (i *Injector) Type(text string) error {
	if text == "" {
		return nil
	}

	previous, restoreErr := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	time.Sleep(clipboardSettle)

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("init key synthesis: %w", err)
	}
	kb.SetKeys(keybd_event.VK_V)
	i.withPrimaryModifier(&kb)
	if err := kb.Launching(); err != nil {
		return fmt.Errorf("synthesize paste: %w", err)
	}

	time.Sleep(pasteSettle)
	if restoreErr == nil {
		_ = clipboard.WriteAll(previous)
	}
	return nil
}

// Send synthesizes the confirm keystroke after typed text: a plain Enter or
// a modified Enter depending on the configured send mode.
func (i *Injector) Send(mode string) error {
	time.Sleep(sendSettle)

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("init key synthesis: %w", err)
	}
	kb.SetKeys(keybd_event.VK_ENTER)
	if mode == settings.SendModeCmdEnter {
		i.withPrimaryModifier(&kb)
	}
	if err := kb.Launching(); err != nil {
		return fmt.Errorf("synthesize send keystroke: %w", err)
	}
	return nil
}

// withPrimaryModifier holds Cmd on macOS and Ctrl elsewhere.
func (i *Injector) withPrimaryModifier(kb *keybd_event.KeyBonding) {
	if i.goos == "darwin" {
		kb.HasSuper(true)
		return
	}
	kb.HasCTRL(true)
}
