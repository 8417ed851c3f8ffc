// Package notify raises desktop notifications for failures that need the
// user's attention (permissions, network). Notification failures are ignored;
// the log already carries the detail.
package notify

import "github.com/gen2brain/beeep"

const appTitle = "viska"

func Warn(message string) {
	_ = beeep.Notify(appTitle, message, "")
}

func Alert(message string) {
	_ = beeep.Alert(appTitle, message, "")
}
