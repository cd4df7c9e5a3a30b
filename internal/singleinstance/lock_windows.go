//go:build windows

package singleinstance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// Lock держит именованный мьютекс Windows. Ядро освобождает его при
// завершении процесса.
type Lock struct {
	handle windows.Handle
}

// TryLock пытается создать мьютекс Local\name.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("не задано имя блокировки")
	}
	nameUTF16, err := windows.UTF16PtrFromString(`Local\` + name)
	if err != nil {
		return nil, fmt.Errorf("некорректное имя мьютекса %q: %w", name, err)
	}
	h, err := windows.CreateMutex(nil, true, nameUTF16)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, fmt.Errorf("CreateMutex %q: %w", name, err)
	}
	return &Lock{handle: h}, nil
}

// Release закрывает мьютекс. Безопасен для nil и повторного вызова.
func (l *Lock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}
