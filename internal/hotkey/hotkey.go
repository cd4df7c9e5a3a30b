// Package hotkey регистрирует глобальные горячие клавиши ролей и пересылает
// их нажатия и отпускания в виде shortcut.Event.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"tambourine/internal/config"
	"tambourine/internal/shortcut"
)

// unregisterTimeout - сколько ждать отмены регистрации в ОС.
const unregisterTimeout = 500 * time.Millisecond

// Compile собирает из конфигурации объект горячей клавиши ОС. Подходит как
// config.Compiler.
func Compile(cfg config.HotkeyConfig) error {
	_, _, err := build(cfg)
	return err
}

func build(cfg config.HotkeyConfig) ([]hotkey.Modifier, hotkey.Key, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	mods := make([]hotkey.Modifier, 0, len(cfg.Modifiers))
	for _, m := range cfg.Modifiers {
		mod, ok := nativeModifier(m)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q на этой платформе", config.ErrUnknownModifier, m)
		}
		mods = append(mods, mod)
	}

	key, ok := keyMap[cfg.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q на этой платформе", config.ErrUnknownKey, cfg.Key)
	}
	return mods, key, nil
}

type registration struct {
	shortcut string
	hk       *hotkey.Hotkey
	stop     chan struct{}
}

// Registrar держит регистрации горячих клавиш всех ролей.
type Registrar struct {
	mu      sync.Mutex
	handle  func(shortcut.Event)
	active  []*registration
	current config.Bindings
}

// New создаёт регистратор. handle вызывается из горутин слушателей.
func New(handle func(shortcut.Event)) *Registrar {
	return &Registrar{handle: handle}
}

// Register заменяет текущие регистрации клавишами из b. Роли с одинаковой
// клавишей регистрируются один раз: какую роль она запускает, решает
// получатель событий. Ошибки по отдельным клавишам объединяются, остальные
// клавиши при этом остаются зарегистрированными.
func (r *Registrar) Register(b config.Bindings) error {
	r.Unregister()

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	seen := make(map[string]bool, len(b))
	for _, binding := range b {
		if seen[binding.Key] {
			slog.Warn("Клавиша уже зарегистрирована другой ролью", "role", binding.Role, "hotkey", binding.Hotkey.String())
			continue
		}
		seen[binding.Key] = true

		reg, err := register(binding.Hotkey)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", binding.Role, binding.Hotkey, err))
			continue
		}
		slog.Info("Горячая клавиша зарегистрирована", "role", binding.Role, "hotkey", binding.Hotkey.String())
		r.active = append(r.active, reg)
		go r.listen(reg)
	}
	r.current = b
	return errors.Join(errs...)
}

func register(cfg config.HotkeyConfig) (*registration, error) {
	mods, key, err := build(cfg)
	if err != nil {
		return nil, err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, err
	}
	return &registration{
		shortcut: cfg.String(),
		hk:       hk,
		stop:     make(chan struct{}),
	}, nil
}

// listen пересылает keydown/keyup без фильтрации: автоповтор отсекает
// автомат записи по флагам "зажата".
func (r *Registrar) listen(reg *registration) {
	for {
		select {
		case <-reg.stop:
			return
		case _, ok := <-reg.hk.Keydown():
			if !ok {
				return
			}
			r.handle(shortcut.Event{Shortcut: reg.shortcut, State: shortcut.Pressed})
		case _, ok := <-reg.hk.Keyup():
			if !ok {
				return
			}
			r.handle(shortcut.Event{Shortcut: reg.shortcut, State: shortcut.Released})
		}
	}
}

// Unregister отменяет все регистрации.
func (r *Registrar) Unregister() {
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()

	for _, reg := range active {
		close(reg.stop)

		// Отмена регистрации может зависнуть в цикле событий ОС
		done := make(chan struct{})
		go func() {
			if err := reg.hk.Unregister(); err != nil {
				slog.Debug("Ошибка отмены регистрации", "hotkey", reg.shortcut, "error", err)
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(unregisterTimeout):
			slog.Warn("Таймаут отмены регистрации горячей клавиши", "hotkey", reg.shortcut)
		}
	}
}

// Current возвращает последние переданные в Register привязки.
func (r *Registrar) Current() config.Bindings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

// nativeModifier определён в modifiers_*.go.

var keyMap = map[config.Key]hotkey.Key{
	config.KeySpace:  hotkey.KeySpace,
	config.KeyReturn: hotkey.KeyReturn,
	config.KeyTab:    hotkey.KeyTab,
	config.KeyEscape: hotkey.KeyEscape,
	config.KeyDelete: hotkey.KeyDelete,
	config.KeyA:      hotkey.KeyA,
	config.KeyB:      hotkey.KeyB,
	config.KeyC:      hotkey.KeyC,
	config.KeyD:      hotkey.KeyD,
	config.KeyE:      hotkey.KeyE,
	config.KeyF:      hotkey.KeyF,
	config.KeyG:      hotkey.KeyG,
	config.KeyH:      hotkey.KeyH,
	config.KeyI:      hotkey.KeyI,
	config.KeyJ:      hotkey.KeyJ,
	config.KeyK:      hotkey.KeyK,
	config.KeyL:      hotkey.KeyL,
	config.KeyM:      hotkey.KeyM,
	config.KeyN:      hotkey.KeyN,
	config.KeyO:      hotkey.KeyO,
	config.KeyP:      hotkey.KeyP,
	config.KeyQ:      hotkey.KeyQ,
	config.KeyR:      hotkey.KeyR,
	config.KeyS:      hotkey.KeyS,
	config.KeyT:      hotkey.KeyT,
	config.KeyU:      hotkey.KeyU,
	config.KeyV:      hotkey.KeyV,
	config.KeyW:      hotkey.KeyW,
	config.KeyX:      hotkey.KeyX,
	config.KeyY:      hotkey.KeyY,
	config.KeyZ:      hotkey.KeyZ,
	config.Key0:      hotkey.Key0,
	config.Key1:      hotkey.Key1,
	config.Key2:      hotkey.Key2,
	config.Key3:      hotkey.Key3,
	config.Key4:      hotkey.Key4,
	config.Key5:      hotkey.Key5,
	config.Key6:      hotkey.Key6,
	config.Key7:      hotkey.Key7,
	config.Key8:      hotkey.Key8,
	config.Key9:      hotkey.Key9,
	config.KeyF1:     hotkey.KeyF1,
	config.KeyF2:     hotkey.KeyF2,
	config.KeyF3:     hotkey.KeyF3,
	config.KeyF4:     hotkey.KeyF4,
	config.KeyF5:     hotkey.KeyF5,
	config.KeyF6:     hotkey.KeyF6,
	config.KeyF7:     hotkey.KeyF7,
	config.KeyF8:     hotkey.KeyF8,
	config.KeyF9:     hotkey.KeyF9,
	config.KeyF10:    hotkey.KeyF10,
	config.KeyF11:    hotkey.KeyF11,
	config.KeyF12:    hotkey.KeyF12,
}
