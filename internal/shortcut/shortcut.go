// Package shortcut содержит общие типы глобальных горячих клавиш:
// роли, события нажатия/отпускания и нормализацию строк.
package shortcut

// Role - назначение горячей клавиши.
type Role int

const (
	// RoleToggle - запуск/остановка записи по отпусканию клавиши.
	RoleToggle Role = iota
	// RoleHold - запись пока клавиша зажата (push-to-talk).
	RoleHold
	// RolePasteLast - вставка последней расшифровки.
	RolePasteLast
)

// Roles возвращает все роли в порядке приоритета сравнения.
func Roles() []Role {
	return []Role{RoleToggle, RoleHold, RolePasteLast}
}

// String возвращает имя роли для логов.
func (r Role) String() string {
	switch r {
	case RoleToggle:
		return "Toggle"
	case RoleHold:
		return "Hold"
	case RolePasteLast:
		return "PasteLast"
	}
	return "Unknown"
}

// SettingKey возвращает ключ настройки, под которым хранится клавиша роли.
func (r Role) SettingKey() string {
	switch r {
	case RoleToggle:
		return "toggle_hotkey"
	case RoleHold:
		return "hold_hotkey"
	case RolePasteLast:
		return "paste_last_hotkey"
	}
	return ""
}

// State - состояние клавиши в событии.
type State int

const (
	Pressed State = iota
	Released
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event - событие от системного хука: строковое представление
// сработавшей комбинации и признак нажатия/отпускания.
type Event struct {
	Shortcut string
	State    State
}
