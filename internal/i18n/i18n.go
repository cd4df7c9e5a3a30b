// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = EN // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "Tambourine",
		"app_tooltip": "Tambourine - голосовой ввод",

		// Tray menu
		"tray_ready":              "Готов к записи",
		"tray_recording":          "Запись...",
		"tray_sound":              "Звуковые сигналы",
		"tray_sound_hint":         "Сигнал в начале и в конце записи",
		"tray_auto_mute":          "Глушить звук при записи",
		"tray_auto_mute_hint":     "Выключать системный звук на время записи",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_hotkeys":            "Горячие клавиши",
		"tray_hotkey_toggle":      "Переключение записи",
		"tray_hotkey_hold":        "Запись при удержании",
		"tray_hotkey_paste_last":  "Вставить последнее",
		"tray_language":           "Язык интерфейса",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_recording":      "Запись...",
		"notify_recording_hint": "Говорите в микрофон",
		"notify_stopped":        "Запись остановлена",
		"notify_stopped_hint":   "Расшифровка появится в активном окне",
		"notify_error":          "Ошибка",
		"notify_ready":          "Tambourine готов к работе",

		// Hotkey dialog
		"dialog_modifiers":       "Выберите модификаторы:",
		"dialog_modifiers_title": "Горячая клавиша - модификаторы",
		"dialog_key":             "Выберите клавишу:",
		"dialog_key_title":       "Горячая клавиша - клавиша",
		"dialog_no_modifiers":    "Необходимо выбрать хотя бы один модификатор",

		// Errors
		"error_hotkey":          "Не удалось зарегистрировать горячие клавиши",
		"error_hotkey_conflict": "Эта комбинация уже назначена другому действию",
		"error_already_running": "Tambourine уже запущен",
		"error_startup":         "Ошибка запуска",

		// Success messages
		"success_hotkey_changed": "Горячая клавиша изменена",
	},

	EN: {
		// App
		"app_name":    "Tambourine",
		"app_tooltip": "Tambourine - voice dictation",

		// Tray menu
		"tray_ready":              "Ready to record",
		"tray_recording":          "Recording...",
		"tray_sound":              "Sound cues",
		"tray_sound_hint":         "Play a cue when recording starts and stops",
		"tray_auto_mute":          "Mute audio while recording",
		"tray_auto_mute_hint":     "Mute system audio for the duration of a recording",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_hotkeys":            "Hotkeys",
		"tray_hotkey_toggle":      "Toggle recording",
		"tray_hotkey_hold":        "Hold to record",
		"tray_hotkey_paste_last":  "Paste last",
		"tray_language":           "Interface language",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close application",

		// Notifications
		"notify_recording":      "Recording...",
		"notify_recording_hint": "Speak into the microphone",
		"notify_stopped":        "Recording stopped",
		"notify_stopped_hint":   "The transcription will appear in the active window",
		"notify_error":          "Error",
		"notify_ready":          "Tambourine is ready",

		// Hotkey dialog
		"dialog_modifiers":       "Choose modifiers:",
		"dialog_modifiers_title": "Hotkey - modifiers",
		"dialog_key":             "Choose a key:",
		"dialog_key_title":       "Hotkey - key",
		"dialog_no_modifiers":    "Select at least one modifier",

		// Errors
		"error_hotkey":          "Failed to register hotkeys",
		"error_hotkey_conflict": "This combination is already assigned to another action",
		"error_already_running": "Tambourine is already running",
		"error_startup":         "Startup error",

		// Success messages
		"success_hotkey_changed": "Hotkey changed",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to English, then to the key itself
	if s, ok := translations[EN][key]; ok {
		return s
	}
	return key
}

// SetLanguage sets the current UI language. Unknown languages fall back to EN.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; !ok {
		lang = EN
	}
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{EN, RU}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
