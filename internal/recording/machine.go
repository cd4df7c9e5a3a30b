package recording

import (
	"context"
	"log/slog"

	"tambourine/internal/shortcut"
)

// Machine - конечный автомат записи.
type Machine struct {
	settings Settings
	flags    *Flags
	coord    *Coordinator
	paste    *PasteLast
}

// NewMachine создаёт автомат. flags должен быть тем же, что у coord.
func NewMachine(settings Settings, flags *Flags, coord *Coordinator, paste *PasteLast) *Machine {
	return &Machine{
		settings: settings,
		flags:    flags,
		coord:    coord,
		paste:    paste,
	}
}

// IsRecording возвращает true если запись идёт.
func (m *Machine) IsRecording() bool {
	return m.flags.Recording.Load()
}

// Handle обрабатывает одно событие от хука. Никогда не возвращает ошибку:
// неизвестная клавиша пишется в лог и отбрасывается.
func (m *Machine) Handle(ctx context.Context, ev shortcut.Event) {
	snap := m.settings.Snapshot()

	id := shortcut.Normalize(ev.Shortcut)
	role, ok := snap.Hotkeys.Match(id)
	if !ok {
		slog.Warn("Неизвестная горячая клавиша", "shortcut", id, "state", ev.State)
		return
	}
	slog.Debug("Событие горячей клавиши", "role", role, "state", ev.State)

	switch role {
	case shortcut.RoleToggle:
		// Действие на отпускании: нажатие только взводит флаг
		if ev.State == shortcut.Pressed {
			m.flags.ToggleHeld.Swap(true)
			return
		}
		if !m.flags.ToggleHeld.Swap(false) {
			return
		}
		if m.flags.Recording.Load() {
			m.coord.End(snap, "Toggle")
		} else {
			m.coord.Begin(snap, "Toggle")
		}

	case shortcut.RoleHold:
		if ev.State == shortcut.Pressed {
			if !m.flags.HoldHeld.Swap(true) {
				m.coord.Begin(snap, "Hold")
			}
			return
		}
		if m.flags.HoldHeld.Swap(false) {
			m.coord.End(snap, "Hold")
		}

	case shortcut.RolePasteLast:
		if ev.State == shortcut.Pressed {
			m.flags.PasteHeld.Swap(true)
			return
		}
		if m.flags.PasteHeld.Swap(false) {
			m.paste.Run(ctx)
		}
	}
}
