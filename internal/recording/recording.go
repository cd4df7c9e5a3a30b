// Package recording управляет записью по глобальным горячим клавишам.
//
// Machine принимает события нажатия/отпускания от системного хука, определяет
// роль клавиши (Toggle, Hold, PasteLast) и по фронтам флагов "клавиша зажата"
// решает, когда начать или остановить запись. Повторы нажатия от автоповтора
// клавиатуры и отпускания без нажатия игнорируются.
package recording

import (
	"context"
	"sync/atomic"

	"tambourine/internal/config"
	"tambourine/internal/history"
)

// Settings - хранилище настроек, читается заново на каждое событие.
type Settings interface {
	Snapshot() config.Snapshot
}

// CuePlayer запускает воспроизведение звуковых сигналов, не дожидаясь окончания.
type CuePlayer interface {
	PlayStart()
	PlayStop()
}

// Muter глушит и восстанавливает системный звук.
type Muter interface {
	Mute() error
	Unmute() error
}

// Emitter рассылает сигналы "запись началась"/"запись остановлена".
type Emitter interface {
	Emit(name string)
}

// History отдаёт последние расшифровки, новые первыми.
type History interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Injector вводит текст в активное поле ввода. Блокирующий.
type Injector interface {
	Inject(text string) error
}

// Flags - состояние сессии записи. Каждый флаг меняется только атомарно и
// независимо от остальных.
type Flags struct {
	ToggleHeld atomic.Bool
	HoldHeld   atomic.Bool
	PasteHeld  atomic.Bool
	Recording  atomic.Bool
}
