//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"tambourine/internal/config"
)

// На Windows Super - клавиша Win.
func nativeModifier(m config.Modifier) (hotkey.Modifier, bool) {
	switch m {
	case config.ModCtrl:
		return hotkey.ModCtrl, true
	case config.ModShift:
		return hotkey.ModShift, true
	case config.ModAlt:
		return hotkey.ModAlt, true
	case config.ModSuper:
		return hotkey.ModWin, true
	}
	return 0, false
}
