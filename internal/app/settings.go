package app

import (
	"errors"
	"log/slog"
	"slices"

	"tambourine/internal/config"
	"tambourine/internal/dialog"
	"tambourine/internal/hotkey"
	"tambourine/internal/i18n"
	"tambourine/internal/shortcut"
	"tambourine/internal/tray"
)

func hotkeyTitles(b config.Bindings) map[shortcut.Role]string {
	out := make(map[shortcut.Role]string, len(b))
	for _, x := range b {
		out[x.Role] = x.Hotkey.String()
	}
	return out
}

func (a *App) trayCallbacks() tray.Callbacks {
	return tray.Callbacks{
		OnSoundToggle: func() bool {
			enabled := !a.config.SoundEnabled()
			a.config.SetSoundEnabled(enabled)
			return enabled
		},
		OnAutoMuteToggle: func() bool {
			enabled := !a.config.AutoMuteAudio()
			a.config.SetAutoMuteAudio(enabled)
			return enabled
		},
		OnNotificationsToggle: func() bool {
			return a.config.ToggleNotifications()
		},
		OnHotkeyClick: a.changeHotkey,
		OnLanguage: func(lang i18n.Language) {
			a.config.SetUILanguage(string(lang))
		},
		OnQuit: a.Close,
	}
}

// changeHotkey спрашивает у пользователя новую клавишу роли и сохраняет её.
// Перерегистрация происходит в onSettingsChanged.
func (a *App) changeHotkey(role shortcut.Role) {
	hk, err := dialog.SelectHotkey(tray.RoleTitle(role), a.config.Hotkey(role))
	if err != nil {
		if !dialog.Canceled(err) {
			slog.Warn("Ошибка диалога выбора клавиши", "role", role, "error", err)
			a.notifier.Error(i18n.T("dialog_no_modifiers"))
		}
		return
	}

	if err := a.config.SetHotkey(role, hk); err != nil {
		slog.Warn("Горячая клавиша не сохранена", "role", role, "hotkey", hk.String(), "error", err)
		if errors.Is(err, config.ErrHotkeyConflict) {
			a.notifier.Error(i18n.T("error_hotkey_conflict"))
		} else {
			a.notifier.Error(err.Error())
		}
		return
	}
	a.notifier.Info(i18n.T("success_hotkey_changed") + ": " + hk.String())
}

// onSettingsChanged применяет изменения настроек, сделанные из меню или
// правкой файла.
func (a *App) onSettingsChanged(keys []string) {
	slog.Debug("Настройки изменены", "keys", keys)

	if config.HotkeysChanged(keys) {
		a.reregister()
	}
	if slices.Contains(keys, config.KeyNotifications) {
		a.notifier.SetEnabled(a.config.NotificationsEnabled())
	}
	if slices.Contains(keys, config.KeyUILanguage) {
		i18n.SetLanguage(i18n.Language(a.config.UILanguage()))
		a.tray.RefreshUI()
	}
	if slices.Contains(keys, config.KeyStartCue) || slices.Contains(keys, config.KeyStopCue) {
		a.player.SetCues(a.config.CuePath(config.KeyStartCue), a.config.CuePath(config.KeyStopCue))
	}
	if slices.ContainsFunc(keys, func(k string) bool {
		return k == config.KeySoundEnabled || k == config.KeyAutoMuteAudio || k == config.KeyNotifications
	}) {
		a.tray.SetChecks(a.config.SoundEnabled(), a.config.AutoMuteAudio(), a.config.NotificationsEnabled())
	}
}

// reregister приводит клавиши ОС к текущим настройкам, чтобы хук и
// сравнение в автомате записи читали одно и то же.
func (a *App) reregister() {
	b := config.Resolve(a.config, hotkey.Compile)
	slog.Info("Перерегистрация горячих клавиш", "bindings", b.String())

	if err := a.registrar.Register(b); err != nil {
		slog.Warn("Не все горячие клавиши зарегистрированы", "error", err)
		a.notifier.Error(i18n.T("error_hotkey"))
	}
	for role, title := range hotkeyTitles(b) {
		a.tray.SetHotkey(role, title)
	}
}
