//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"tambourine/internal/config"
)

// На macOS Alt - это Option, Super - Command.
func nativeModifier(m config.Modifier) (hotkey.Modifier, bool) {
	switch m {
	case config.ModCtrl:
		return hotkey.ModCtrl, true
	case config.ModShift:
		return hotkey.ModShift, true
	case config.ModAlt:
		return hotkey.ModOption, true
	case config.ModSuper:
		return hotkey.ModCmd, true
	}
	return 0, false
}
