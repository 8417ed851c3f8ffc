//go:build linux

package hotkey

import "golang.design/x/hotkey"

var platformModifiers = map[string]hotkey.Modifier{
	"alt":    hotkey.Mod1,
	"option": hotkey.Mod1,
	"cmd":    hotkey.Mod4,
	"super":  hotkey.Mod4,
}
