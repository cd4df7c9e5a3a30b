package config

import (
	"errors"
	"fmt"
	"strings"

	"tambourine/internal/shortcut"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyTab    Key = "tab"
	KeyEscape Key = "escape"
	KeyDelete Key = "delete"
	KeyA      Key = "a"
	KeyB      Key = "b"
	KeyC      Key = "c"
	KeyD      Key = "d"
	KeyE      Key = "e"
	KeyF      Key = "f"
	KeyG      Key = "g"
	KeyH      Key = "h"
	KeyI      Key = "i"
	KeyJ      Key = "j"
	KeyK      Key = "k"
	KeyL      Key = "l"
	KeyM      Key = "m"
	KeyN      Key = "n"
	KeyO      Key = "o"
	KeyP      Key = "p"
	KeyQ      Key = "q"
	KeyR      Key = "r"
	KeyS      Key = "s"
	KeyT      Key = "t"
	KeyU      Key = "u"
	KeyV      Key = "v"
	KeyW      Key = "w"
	KeyX      Key = "x"
	KeyY      Key = "y"
	KeyZ      Key = "z"
	Key0      Key = "0"
	Key1      Key = "1"
	Key2      Key = "2"
	Key3      Key = "3"
	Key4      Key = "4"
	Key5      Key = "5"
	Key6      Key = "6"
	Key7      Key = "7"
	Key8      Key = "8"
	Key9      Key = "9"
	KeyF1     Key = "f1"
	KeyF2     Key = "f2"
	KeyF3     Key = "f3"
	KeyF4     Key = "f4"
	KeyF5     Key = "f5"
	KeyF6     Key = "f6"
	KeyF7     Key = "f7"
	KeyF8     Key = "f8"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"
)

var (
	// ErrUnknownModifier - модификатор не поддерживается.
	ErrUnknownModifier = errors.New("неизвестный модификатор")
	// ErrUnknownKey - клавиша не поддерживается.
	ErrUnknownKey = errors.New("неизвестная клавиша")
)

// HotkeyConfig хранит настройки горячей клавиши.
type HotkeyConfig struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// String возвращает строковое представление горячей клавиши.
func (h HotkeyConfig) String() string {
	parts := make([]string, 0, len(h.Modifiers)+1)
	for _, m := range h.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(h.Key))
	return strings.Join(parts, "+")
}

// Normalized возвращает каноническую строку для сравнения с событиями хука.
func (h HotkeyConfig) Normalized() string {
	return shortcut.Normalize(h.String())
}

// Validate проверяет, что из конфигурации можно собрать настоящую горячую клавишу.
func (h HotkeyConfig) Validate() error {
	for _, m := range h.Modifiers {
		if !knownModifiers[m] {
			return fmt.Errorf("%w: %q", ErrUnknownModifier, m)
		}
	}
	if h.Key == "" {
		return fmt.Errorf("%w: пустая клавиша", ErrUnknownKey)
	}
	if !knownKeys[h.Key] {
		return fmt.Errorf("%w: %q", ErrUnknownKey, h.Key)
	}
	return nil
}

// ParseHotkey разбирает строку вида "Ctrl+Alt+Space".
func ParseHotkey(s string) (HotkeyConfig, error) {
	parts := strings.Split(shortcut.Normalize(s), "+")
	if len(parts) == 0 || parts[0] == "" {
		return HotkeyConfig{}, fmt.Errorf("%w: пустая строка", ErrUnknownKey)
	}

	var hk HotkeyConfig
	for _, p := range parts[:len(parts)-1] {
		m := Modifier(p)
		if p == "control" {
			m = ModCtrl
		}
		hk.Modifiers = append(hk.Modifiers, m)
	}
	hk.Key = Key(parts[len(parts)-1])
	if err := hk.Validate(); err != nil {
		return HotkeyConfig{}, err
	}
	return hk, nil
}

// DefaultHotkey возвращает встроенную горячую клавишу роли. Всегда валидна.
func DefaultHotkey(role shortcut.Role) HotkeyConfig {
	switch role {
	case shortcut.RoleHold:
		return HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModAlt}, Key: KeyR}
	case shortcut.RolePasteLast:
		return HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModAlt}, Key: KeyV}
	default:
		return HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModAlt}, Key: KeySpace}
	}
}

// AvailableModifiers возвращает список доступных модификаторов.
func AvailableModifiers() []Modifier {
	return []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}
}

// AvailableKeys возвращает список доступных клавиш.
func AvailableKeys() []Key {
	return []Key{
		KeySpace, KeyReturn, KeyTab, KeyEscape, KeyDelete,
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
		Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
	}
}

var (
	knownModifiers = map[Modifier]bool{}
	knownKeys      = map[Key]bool{}
)

func init() {
	for _, m := range AvailableModifiers() {
		knownModifiers[m] = true
	}
	for _, k := range AvailableKeys() {
		knownKeys[k] = true
	}
}
