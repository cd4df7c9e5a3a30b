//go:build !unix && !windows

package singleinstance

// Lock - пустая блокировка для платформ без поддержки.
type Lock struct{}

// TryLock всегда успешен.
func TryLock(_ string) (*Lock, error) { return &Lock{}, nil }

// Release ничего не делает.
func (l *Lock) Release() error { return nil }
