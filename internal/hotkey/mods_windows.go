//go:build windows

package hotkey

import "golang.design/x/hotkey"

var platformModifiers = map[string]hotkey.Modifier{
	"alt":   hotkey.ModAlt,
	"cmd":   hotkey.ModWin,
	"super": hotkey.ModWin,
	"win":   hotkey.ModWin,
}
