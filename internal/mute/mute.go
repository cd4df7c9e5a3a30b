// Package mute глушит системный звук на время записи.
//
// Заглушение поддерживается не везде. New возвращает ErrUnsupported, если на
// платформе нет подходящего механизма; это не ошибка приложения.
package mute

import (
	"errors"
	"sync"
)

// ErrUnsupported - заглушение звука на этой платформе не поддерживается.
var ErrUnsupported = errors.New("заглушение звука не поддерживается")

// mixer - платформенный доступ к системному микшеру.
type mixer interface {
	available() bool
	muted() (bool, error)
	setMuted(bool) error
}

// Manager глушит звук и при восстановлении возвращает исходное состояние:
// если пользователь сам выключил звук до записи, Unmute его не включит.
type Manager struct {
	mu        sync.Mutex
	mx        mixer
	mutedByUs bool
}

// New создаёт Manager для текущей платформы.
func New() (*Manager, error) {
	return newManager(platformMixer())
}

func newManager(mx mixer) (*Manager, error) {
	if mx == nil || !mx.available() {
		return nil, ErrUnsupported
	}
	return &Manager{mx: mx}, nil
}

// Supported сообщает, можно ли глушить звук на этой платформе.
func Supported() bool {
	mx := platformMixer()
	return mx != nil && mx.available()
}

// Mute глушит системный звук.
func (m *Manager) Mute() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mutedByUs {
		return nil
	}
	was, err := m.mx.muted()
	if err != nil {
		return err
	}
	if was {
		return nil
	}
	if err := m.mx.setMuted(true); err != nil {
		return err
	}
	m.mutedByUs = true
	return nil
}

// Unmute возвращает звук, если его заглушил Mute.
func (m *Manager) Unmute() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mutedByUs {
		return nil
	}
	if err := m.mx.setMuted(false); err != nil {
		return err
	}
	m.mutedByUs = false
	return nil
}
