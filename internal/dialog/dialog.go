// Package dialog предоставляет GUI диалоги для настройки приложения.
package dialog

import (
	"errors"
	"strings"

	"github.com/ncruces/zenity"

	"tambourine/internal/config"
	"tambourine/internal/i18n"
)

// ErrNoModifiers - пользователь не выбрал ни одного модификатора.
var ErrNoModifiers = errors.New("не выбран ни один модификатор")

var modifierLabels = map[config.Modifier]string{
	config.ModCtrl:  "Ctrl",
	config.ModShift: "Shift",
	config.ModAlt:   "Alt",
	config.ModSuper: "Super (Win/Cmd)",
}

func modifierLabel(m config.Modifier) string {
	if s, ok := modifierLabels[m]; ok {
		return s
	}
	return string(m)
}

func keyLabel(k config.Key) string {
	if len(k) == 1 {
		return strings.ToUpper(string(k))
	}
	s := string(k)
	if s[0] == 'f' {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SelectHotkey открывает диалог выбора горячей клавиши для действия title.
// Возвращает zenity.ErrCanceled, если пользователь отменил.
func SelectHotkey(title string, current config.HotkeyConfig) (config.HotkeyConfig, error) {
	// Шаг 1: модификаторы
	mods := config.AvailableModifiers()
	modOptions := make([]string, len(mods))
	for i, m := range mods {
		modOptions[i] = modifierLabel(m)
	}
	currentMods := make([]string, 0, len(current.Modifiers))
	for _, m := range current.Modifiers {
		currentMods = append(currentMods, modifierLabel(m))
	}

	selectedMods, err := zenity.ListMultiple(
		i18n.T("dialog_modifiers"),
		modOptions,
		zenity.Title(title+" - "+i18n.T("dialog_modifiers_title")),
		zenity.DefaultItems(currentMods...),
	)
	if err != nil {
		return current, err
	}
	if len(selectedMods) == 0 {
		return current, ErrNoModifiers
	}

	newMods := make([]config.Modifier, 0, len(selectedMods))
	for _, s := range selectedMods {
		for i, opt := range modOptions {
			if s == opt {
				newMods = append(newMods, mods[i])
				break
			}
		}
	}

	// Шаг 2: клавиша
	keys := config.AvailableKeys()
	keyOptions := make([]string, len(keys))
	for i, k := range keys {
		keyOptions[i] = keyLabel(k)
	}

	selectedKey, err := zenity.List(
		i18n.T("dialog_key"),
		keyOptions,
		zenity.Title(title+" - "+i18n.T("dialog_key_title")),
		zenity.DefaultItems(keyLabel(current.Key)),
	)
	if err != nil {
		return current, err
	}

	var newKey config.Key
	for i, opt := range keyOptions {
		if selectedKey == opt {
			newKey = keys[i]
			break
		}
	}

	return config.HotkeyConfig{
		Modifiers: newMods,
		Key:       newKey,
	}, nil
}

// Canceled сообщает, что ошибка означает отмену диалога пользователем.
func Canceled(err error) bool {
	return errors.Is(err, zenity.ErrCanceled)
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	_ = zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	_ = zenity.Error(message, zenity.Title(title))
}
