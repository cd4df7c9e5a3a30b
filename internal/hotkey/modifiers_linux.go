//go:build linux

package hotkey

import (
	"golang.design/x/hotkey"

	"tambourine/internal/config"
)

// В X11 Alt и Super - это Mod1 и Mod4; на Wayland глобальные клавиши
// доступны только через XWayland.
func nativeModifier(m config.Modifier) (hotkey.Modifier, bool) {
	switch m {
	case config.ModCtrl:
		return hotkey.ModCtrl, true
	case config.ModShift:
		return hotkey.ModShift, true
	case config.ModAlt:
		return hotkey.Mod1, true
	case config.ModSuper:
		return hotkey.Mod4, true
	}
	return 0, false
}
