package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tambourine/internal/shortcut"
)

// Compiler собирает из конфигурации горячую клавишу ОС и сообщает об ошибке,
// если это невозможно. nil означает HotkeyConfig.Validate.
type Compiler func(HotkeyConfig) error

// Source - хранилище сырых значений настроек.
type Source interface {
	Raw(key string) (json.RawMessage, bool)
}

// Binding - проверенная горячая клавиша роли и её ключ сравнения.
type Binding struct {
	Role   shortcut.Role
	Hotkey HotkeyConfig
	// Key - нормализованная строка для сравнения с событиями хука.
	Key string
	// Fallback - true если подставлено значение по умолчанию из-за ошибки.
	Fallback bool
}

// Bindings - привязки трёх ролей в порядке приоритета Toggle, Hold, PasteLast.
type Bindings [3]Binding

// Get возвращает привязку роли.
func (b Bindings) Get(role shortcut.Role) Binding {
	for _, x := range b {
		if x.Role == role {
			return x
		}
	}
	return Binding{}
}

// Match находит роль по нормализованной строке события. При совпадении
// нескольких ролей побеждает первая в порядке Toggle, Hold, PasteLast.
func (b Bindings) Match(normalized string) (shortcut.Role, bool) {
	for _, x := range b {
		if x.Key == normalized {
			return x.Role, true
		}
	}
	return 0, false
}

// Conflicts возвращает пары ролей, клавиши которых нормализуются одинаково.
func (b Bindings) Conflicts() [][2]shortcut.Role {
	var out [][2]shortcut.Role
	for i := range b {
		for j := i + 1; j < len(b); j++ {
			if b[i].Key == b[j].Key {
				out = append(out, [2]shortcut.Role{b[i].Role, b[j].Role})
			}
		}
	}
	return out
}

// Resolve читает клавиши всех ролей из src. Если значение не читается или не
// собирается compile, подставляется клавиша роли по умолчанию и пишется
// предупреждение. Отсутствующий ключ - просто значение по умолчанию.
func Resolve(src Source, compile Compiler) Bindings {
	return ResolveAt(src, compile, slog.LevelWarn)
}

// ResolveAt - Resolve с заданным уровнем лога для подстановок. Путь обработки
// каждого события пишет их на Debug, чтобы битая клавиша не засоряла лог на
// каждое нажатие.
func ResolveAt(src Source, compile Compiler, level slog.Level) Bindings {
	if compile == nil {
		compile = HotkeyConfig.Validate
	}

	var out Bindings
	for i, role := range shortcut.Roles() {
		hk, fallback := resolveRole(src, role, compile, level)
		out[i] = Binding{
			Role:     role,
			Hotkey:   hk,
			Key:      hk.Normalized(),
			Fallback: fallback,
		}
	}
	return out
}

func resolveRole(src Source, role shortcut.Role, compile Compiler, level slog.Level) (HotkeyConfig, bool) {
	def := DefaultHotkey(role)

	raw, ok := src.Raw(role.SettingKey())
	if !ok {
		return def, false
	}

	ctx := context.Background()
	var hk HotkeyConfig
	if err := json.Unmarshal(raw, &hk); err != nil {
		slog.Log(ctx, level, "Не удалось прочитать горячую клавишу, используется значение по умолчанию",
			"role", role, "default", def.String(), "error", err)
		return def, true
	}
	if err := compile(hk); err != nil {
		slog.Log(ctx, level, "Некорректная горячая клавиша, используется значение по умолчанию",
			"role", role, "hotkey", hk.String(), "default", def.String(), "error", err)
		return def, true
	}
	return hk, false
}

// fileSource - значения, прочитанные напрямую из файла.
type fileSource map[string]json.RawMessage

func (f fileSource) Raw(key string) (json.RawMessage, bool) {
	v, ok := f[key]
	return v, ok
}

// ReadInitial читает горячие клавиши напрямую из файла настроек. Используется
// при старте, до того как хранилище настроек создано. Любая ошибка чтения даёт
// клавиши по умолчанию.
func ReadInitial(path string, compile Compiler) Bindings {
	values, err := readValues(path)
	if err != nil {
		slog.Warn("Не удалось прочитать настройки при старте", "path", path, "error", err)
		values = nil
	}
	return Resolve(fileSource(values), compile)
}

// String возвращает привязки для логов.
func (b Bindings) String() string {
	return fmt.Sprintf("Toggle: %s, Hold: %s, PasteLast: %s",
		b.Get(shortcut.RoleToggle).Hotkey,
		b.Get(shortcut.RoleHold).Hotkey,
		b.Get(shortcut.RolePasteLast).Hotkey)
}
