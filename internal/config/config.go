// Package config предоставляет конфигурацию приложения с сохранением в файл.
//
// Настройки хранятся плоским JSON-объектом "ключ -> значение", как в хранилище
// настроек фронтенда. Значения читаются по ключу с подстановкой значения по
// умолчанию, поэтому битое или отсутствующее поле никогда не ломает загрузку.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"tambourine/internal/shortcut"
)

// AppID - идентификатор приложения, имя каталога с данными.
const AppID = "com.tambourine.voice-dictation"

// Ключи настроек.
const (
	KeySoundEnabled  = "sound_enabled"
	KeyAutoMuteAudio = "auto_mute_audio"
	KeyNotifications = "notifications"
	KeyUILanguage    = "ui_language"
	KeyPasteMethod   = "paste_method"
	KeyEventsAddr    = "events_addr"
	KeyStartCue      = "start_cue"
	KeyStopCue       = "stop_cue"
)

// Способы вставки текста.
const (
	PasteTyping    = "type"
	PasteClipboard = "clipboard"
)

// ErrHotkeyConflict возвращается, если новая клавиша совпадает с клавишей другой роли.
var ErrHotkeyConflict = errors.New("горячая клавиша уже назначена другой роли")

// Snapshot - настройки, прочитанные в момент обработки события.
type Snapshot struct {
	SoundEnabled  bool
	AutoMuteAudio bool
	Hotkeys       Bindings
}

// Config хранит настройки приложения.
type Config struct {
	mu        sync.RWMutex
	path      string
	values    map[string]json.RawMessage
	listeners []func(keys []string)
}

// DefaultPath возвращает путь к settings.json в каталоге данных пользователя.
// Переменная окружения TAMBOURINE_CONFIG переопределяет путь.
func DefaultPath() string {
	if p := os.Getenv("TAMBOURINE_CONFIG"); p != "" {
		return p
	}
	dir, err := userDataDir()
	if err != nil {
		// Нет домашнего каталога - кладём рядом с бинарником, как раньше
		execPath, err := os.Executable()
		if err != nil {
			return "settings.json"
		}
		return filepath.Join(filepath.Dir(execPath), "settings.json")
	}
	return filepath.Join(dir, AppID, "settings.json")
}

// userDataDir возвращает каталог данных приложений: $XDG_DATA_HOME или
// ~/.local/share в Linux. На macOS и Windows он совпадает с os.UserConfigDir.
func userDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows", "darwin", "ios", "plan9":
		return os.UserConfigDir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// New создаёт конфигурацию, загружая её из файла. Пустой path - только память.
func New(path string) *Config {
	c := &Config{
		path:   path,
		values: make(map[string]json.RawMessage),
	}
	if values, err := readValues(path); err != nil {
		slog.Warn("Не удалось прочитать настройки, используются значения по умолчанию", "path", path, "error", err)
	} else {
		c.values = values
	}
	// Предупреждения о битых клавишах - один раз при загрузке
	Resolve(c, nil)
	return c
}

// readValues читает файл настроек. Отсутствующий файл - не ошибка.
func readValues(path string) (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)
	if path == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("разбор %s: %w", path, err)
	}
	return values, nil
}

// Path возвращает путь к файлу настроек.
func (c *Config) Path() string {
	return c.path
}

// save сохраняет конфигурацию в файл. Вызывается под c.mu.
func (c *Config) save() {
	if c.path == "" {
		return
	}

	data, err := json.MarshalIndent(c.values, "", "  ")
	if err != nil {
		slog.Warn("Не удалось сериализовать настройки", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		slog.Warn("Не удалось создать каталог настроек", "path", c.path, "error", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		slog.Warn("Не удалось сохранить настройки", "path", c.path, "error", err)
	}
}

// Raw возвращает сохранённое значение ключа как есть.
func (c *Config) Raw(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Bool читает булево значение с подстановкой значения по умолчанию.
func (c *Config) Bool(key string, def bool) bool {
	var v bool
	if !c.decode(key, &v) {
		return def
	}
	return v
}

// String читает строковое значение с подстановкой значения по умолчанию.
func (c *Config) String(key, def string) string {
	var v string
	if !c.decode(key, &v) || v == "" {
		return def
	}
	return v
}

func (c *Config) decode(key string, out any) bool {
	raw, ok := c.Raw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("Некорректное значение настройки", "key", key, "error", err)
		return false
	}
	return true
}

// set записывает значение, сохраняет файл и уведомляет подписчиков.
func (c *Config) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", key, err)
	}

	c.mu.Lock()
	if bytes.Equal(c.values[key], raw) {
		c.mu.Unlock()
		return nil
	}
	c.values[key] = raw
	c.save()
	listeners := append([]func([]string){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn([]string{key})
	}
	return nil
}

// SoundEnabled возвращает true если звуковые сигналы включены.
func (c *Config) SoundEnabled() bool {
	return c.Bool(KeySoundEnabled, true)
}

// SetSoundEnabled включает/выключает звуковые сигналы.
func (c *Config) SetSoundEnabled(enabled bool) {
	_ = c.set(KeySoundEnabled, enabled)
}

// AutoMuteAudio возвращает true если системный звук глушится на время записи.
func (c *Config) AutoMuteAudio() bool {
	return c.Bool(KeyAutoMuteAudio, false)
}

// SetAutoMuteAudio включает/выключает заглушение системного звука.
func (c *Config) SetAutoMuteAudio(enabled bool) {
	_ = c.set(KeyAutoMuteAudio, enabled)
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	return c.Bool(KeyNotifications, true)
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	enabled := !c.NotificationsEnabled()
	_ = c.set(KeyNotifications, enabled)
	return enabled
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	return c.String(KeyUILanguage, "en")
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	_ = c.set(KeyUILanguage, lang)
}

// PasteMethod возвращает способ вставки текста (PasteTyping или PasteClipboard).
func (c *Config) PasteMethod() string {
	m := c.String(KeyPasteMethod, PasteTyping)
	if m != PasteClipboard {
		return PasteTyping
	}
	return m
}

// EventsAddr возвращает адрес WebSocket сервера событий.
func (c *Config) EventsAddr() string {
	return c.String(KeyEventsAddr, "127.0.0.1:0")
}

// CuePath возвращает путь к пользовательскому WAV для сигнала (может быть пустым).
func (c *Config) CuePath(key string) string {
	return c.String(key, "")
}

// Hotkey возвращает проверенную горячую клавишу роли.
func (c *Config) Hotkey(role shortcut.Role) HotkeyConfig {
	return ResolveAt(c, nil, slog.LevelDebug).Get(role).Hotkey
}

// SetHotkey устанавливает горячую клавишу роли. Клавиша, совпадающая после
// нормализации с клавишей другой роли, отклоняется с ErrHotkeyConflict.
func (c *Config) SetHotkey(role shortcut.Role, hk HotkeyConfig) error {
	if err := hk.Validate(); err != nil {
		return err
	}
	current := ResolveAt(c, nil, slog.LevelDebug)
	for _, b := range current {
		if b.Role != role && b.Key == hk.Normalized() {
			return fmt.Errorf("%w: %s (%s)", ErrHotkeyConflict, hk, b.Role)
		}
	}
	return c.set(role.SettingKey(), hk)
}

// Snapshot читает актуальные настройки. Ничего не кэширует. Подстановки
// клавиш по умолчанию пишутся на Debug: о них уже предупредили New и
// перерегистрация клавиш.
func (c *Config) Snapshot() Snapshot {
	return Snapshot{
		SoundEnabled:  c.SoundEnabled(),
		AutoMuteAudio: c.AutoMuteAudio(),
		Hotkeys:       ResolveAt(c, nil, slog.LevelDebug),
	}
}

// OnChange добавляет обработчик изменения настроек. Получает список изменённых ключей.
func (c *Config) OnChange(fn func(keys []string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Reload перечитывает файл и уведомляет подписчиков об изменённых ключах.
// Если файл не разбирается, текущие значения сохраняются.
func (c *Config) Reload() error {
	values, err := readValues(c.path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	changed := diffKeys(c.values, values)
	c.values = values
	listeners := append([]func([]string){}, c.listeners...)
	c.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	slog.Info("Настройки перечитаны", "changed", changed)
	for _, fn := range listeners {
		fn(changed)
	}
	return nil
}

func diffKeys(old, cur map[string]json.RawMessage) []string {
	var keys []string
	for k, v := range cur {
		if prev, ok := old[k]; !ok || !jsonEqual(prev, v) {
			keys = append(keys, k)
		}
	}
	for k := range old {
		if _, ok := cur[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func jsonEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// HotkeysChanged сообщает, затронуты ли ключами горячие клавиши.
func HotkeysChanged(keys []string) bool {
	for _, k := range keys {
		for _, r := range shortcut.Roles() {
			if k == r.SettingKey() {
				return true
			}
		}
	}
	return false
}
