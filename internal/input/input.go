// Package input предоставляет ввод текста в активное поле.
package input

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
)

// Typer вводит текст в активное поле ввода.
type Typer interface {
	// Type вводит текст в текущее активное поле.
	Type(text string) error
}

// New создаёт платформо-специфичный Typer. Если ввод на этой системе
// невозможен, возвращается ошибка и Typer, отказывающий на каждый вызов:
// без ввода текста запись по горячим клавишам продолжает работать.
func New() (Typer, error) {
	t, err := newTyper()
	if err != nil {
		return unavailableTyper{err: err}, err
	}
	return t, nil
}

// unavailableTyper возвращает причину недоступности ввода.
type unavailableTyper struct {
	err error
}

func (u unavailableTyper) Type(string) error {
	return fmt.Errorf("ввод текста недоступен: %w", u.err)
}

// Способы вставки.
const (
	MethodType      = "type"
	MethodClipboard = "clipboard"
)

// Injector вводит текст выбранным в настройках способом: посимвольно или через
// буфер обмена с нажатием "вставить". Способ читается на каждый вызов.
type Injector struct {
	typer  Typer
	method func() string
	paste  func(string) error
}

// NewInjector создаёт Injector. method возвращает MethodType или MethodClipboard.
func NewInjector(typer Typer, method func() string) *Injector {
	return &Injector{
		typer:  typer,
		method: method,
		paste:  pasteViaClipboard,
	}
}

// Inject вводит текст. Блокирует до завершения ввода.
func (i *Injector) Inject(text string) error {
	if text == "" {
		return errors.New("пустой текст")
	}
	if i.method != nil && i.method() == MethodClipboard {
		return i.paste(text)
	}
	return i.typer.Type(text)
}

// pasteViaClipboard кладёт текст в буфер, нажимает "вставить" и возвращает
// прежнее содержимое буфера.
func pasteViaClipboard(text string) error {
	orig, _ := clipboard.ReadAll()
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("запись в буфер обмена: %w", err)
	}
	time.Sleep(80 * time.Millisecond)

	if err := sendPaste(); err != nil {
		return fmt.Errorf("нажатие вставки: %w", err)
	}

	// Даём приложению прочитать буфер до восстановления
	time.Sleep(120 * time.Millisecond)
	_ = clipboard.WriteAll(orig)
	return nil
}
