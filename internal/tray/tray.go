// Package tray предоставляет системный трей с меню.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"tambourine/internal/events"
	"tambourine/internal/i18n"
	"tambourine/internal/icon"
	"tambourine/internal/shortcut"
)

// Callbacks содержит обработчики событий меню. Переключатели возвращают новое
// состояние флажка.
type Callbacks struct {
	OnSoundToggle         func() bool
	OnAutoMuteToggle      func() bool
	OnNotificationsToggle func() bool
	OnHotkeyClick         func(role shortcut.Role)
	OnLanguage            func(lang i18n.Language)
	OnQuit                func()
}

// Options - начальное состояние флажков меню.
type Options struct {
	SoundEnabled  bool
	AutoMuteAudio bool
	Notifications bool
	Hotkeys       map[shortcut.Role]string
}

var roleTitleKeys = map[shortcut.Role]string{
	shortcut.RoleToggle:    "tray_hotkey_toggle",
	shortcut.RoleHold:      "tray_hotkey_hold",
	shortcut.RolePasteLast: "tray_hotkey_paste_last",
}

// RoleTitle возвращает название действия роли на текущем языке.
func RoleTitle(role shortcut.Role) string {
	return i18n.T(roleTitleKeys[role])
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks Callbacks

	mu        sync.Mutex
	opts      Options
	recording bool

	status     *systray.MenuItem
	sound      *systray.MenuItem
	autoMute   *systray.MenuItem
	notifyOn   *systray.MenuItem
	hotkeyMenu *systray.MenuItem
	hotkeys    map[shortcut.Role]*systray.MenuItem
	langMenu   *systray.MenuItem
	langs      map[i18n.Language]*systray.MenuItem
	quitBtn    *systray.MenuItem
}

// New создаёт новый Tray.
func New(callbacks Callbacks, opts Options) *Tray {
	return &Tray{
		callbacks: callbacks,
		opts:      opts,
		hotkeys:   make(map[shortcut.Role]*systray.MenuItem),
		langs:     make(map[i18n.Language]*systray.MenuItem),
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, func() {})
}

func (t *Tray) onReady() {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetIcon(icon.Idle())
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	// Статус
	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	t.sound = systray.AddMenuItemCheckbox(i18n.T("tray_sound"), i18n.T("tray_sound_hint"), t.opts.SoundEnabled)
	t.autoMute = systray.AddMenuItemCheckbox(i18n.T("tray_auto_mute"), i18n.T("tray_auto_mute_hint"), t.opts.AutoMuteAudio)
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.opts.Notifications)

	// Горячие клавиши
	t.hotkeyMenu = systray.AddMenuItem(i18n.T("tray_hotkeys"), "")
	for _, role := range shortcut.Roles() {
		item := t.hotkeyMenu.AddSubMenuItem(t.hotkeyTitle(role), "")
		t.hotkeys[role] = item
		go t.onClick(item, func() {
			if t.callbacks.OnHotkeyClick != nil {
				t.callbacks.OnHotkeyClick(role)
			}
		})
	}

	// Язык интерфейса
	t.langMenu = systray.AddMenuItem(i18n.T("tray_language"), "")
	for _, lang := range i18n.AvailableLanguages() {
		item := t.langMenu.AddSubMenuItemCheckbox(i18n.LanguageName(lang), "", lang == i18n.GetLanguage())
		t.langs[lang] = item
		go t.onClick(item, func() {
			if t.callbacks.OnLanguage != nil {
				t.callbacks.OnLanguage(lang)
			}
		})
	}

	systray.AddSeparator()

	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	go t.onToggle(t.sound, t.callbacks.OnSoundToggle)
	go t.onToggle(t.autoMute, t.callbacks.OnAutoMuteToggle)
	go t.onToggle(t.notifyOn, t.callbacks.OnNotificationsToggle)
	go t.onClick(t.quitBtn, func() {
		if t.callbacks.OnQuit != nil {
			t.callbacks.OnQuit()
		}
		systray.Quit()
	})
}

func (t *Tray) onClick(item *systray.MenuItem, fn func()) {
	for range item.ClickedCh {
		fn()
	}
}

func (t *Tray) onToggle(item *systray.MenuItem, fn func() bool) {
	if fn == nil {
		return
	}
	t.onClick(item, func() {
		setChecked(item, fn())
	})
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// hotkeyTitle вызывается под t.mu.
func (t *Tray) hotkeyTitle(role shortcut.Role) string {
	title := RoleTitle(role)
	if hk := t.opts.Hotkeys[role]; hk != "" {
		title += ": " + hk
	}
	return title
}

// HandleEvent переключает иконку по событиям записи. Подписывается на
// events.Bus.
func (t *Tray) HandleEvent(name string) {
	switch name {
	case events.RecordingStarted:
		t.SetRecording(true)
	case events.RecordingStopped:
		t.SetRecording(false)
	}
}

// SetRecording обновляет иконку и статус.
func (t *Tray) SetRecording(recording bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = recording
	t.refreshState()
}

// refreshState вызывается под t.mu.
func (t *Tray) refreshState() {
	if t.status == nil {
		return
	}
	if t.recording {
		systray.SetIcon(icon.Recording())
		systray.SetTooltip(i18n.T("app_name") + " - " + i18n.T("tray_recording"))
		t.status.SetTitle(i18n.T("tray_recording"))
		return
	}
	systray.SetIcon(icon.Idle())
	systray.SetTooltip(i18n.T("app_name") + " - " + i18n.T("tray_ready"))
	t.status.SetTitle(i18n.T("tray_ready"))
}

// SetHotkey обновляет подпись пункта меню роли.
func (t *Tray) SetHotkey(role shortcut.Role, hk string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.opts.Hotkeys == nil {
		t.opts.Hotkeys = make(map[shortcut.Role]string)
	}
	t.opts.Hotkeys[role] = hk
	if item := t.hotkeys[role]; item != nil {
		item.SetTitle(t.hotkeyTitle(role))
	}
}

// SetChecks синхронизирует флажки с настройками, изменёнными вне меню.
func (t *Tray) SetChecks(sound, autoMute, notifications bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts.SoundEnabled, t.opts.AutoMuteAudio, t.opts.Notifications = sound, autoMute, notifications
	if t.sound == nil {
		return
	}
	setChecked(t.sound, sound)
	setChecked(t.autoMute, autoMute)
	setChecked(t.notifyOn, notifications)
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет все тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == nil {
		return
	}
	systray.SetTitle(i18n.T("app_name"))
	t.refreshState()

	t.sound.SetTitle(i18n.T("tray_sound"))
	t.sound.SetTooltip(i18n.T("tray_sound_hint"))
	t.autoMute.SetTitle(i18n.T("tray_auto_mute"))
	t.autoMute.SetTooltip(i18n.T("tray_auto_mute_hint"))
	t.notifyOn.SetTitle(i18n.T("tray_notifications"))
	t.notifyOn.SetTooltip(i18n.T("tray_notifications_hint"))
	t.hotkeyMenu.SetTitle(i18n.T("tray_hotkeys"))
	for role, item := range t.hotkeys {
		item.SetTitle(t.hotkeyTitle(role))
	}
	t.langMenu.SetTitle(i18n.T("tray_language"))
	for lang, item := range t.langs {
		setChecked(item, lang == i18n.GetLanguage())
	}
	t.quitBtn.SetTitle(i18n.T("tray_quit"))
	t.quitBtn.SetTooltip(i18n.T("tray_quit_hint"))
}
