// Package events рассылает сигналы о начале и конце записи всем слушателям:
// трею, уведомлениям и оверлею через WebSocket.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Имена сигналов.
const (
	RecordingStarted = "recording-start"
	RecordingStopped = "recording-stop"
)

// subscriberQueue - сколько событий может ждать медленный подписчик.
const subscriberQueue = 16

// recordingWait - сколько Emit ждёт места в очереди для сигналов записи.
// Потерянный recording-stop оставил бы трей и оверлей в состоянии записи.
var recordingWait = time.Second

// Bus доставляет события подписчикам. Каждый подписчик получает события в
// своей горутине и в порядке отправки, поэтому медленный подписчик не
// задерживает отправителя.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan string
	wg     sync.WaitGroup
	closed bool
}

// NewBus создаёт шину событий.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует обработчик событий.
func (b *Bus) Subscribe(fn func(name string)) {
	ch := make(chan string, subscriberQueue)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.subs = append(b.subs, ch)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for name := range ch {
			fn(name)
		}
	}()
}

// Emit отправляет событие всем подписчикам. Обычные события при полной
// очереди отбрасываются, сигналы записи ждут место до recordingWait.
func (b *Bus) Emit(name string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- name:
			continue
		default:
		}

		if name != RecordingStarted && name != RecordingStopped {
			slog.Warn("Подписчик не успевает, событие отброшено", "event", name)
			continue
		}
		timer := time.NewTimer(recordingWait)
		select {
		case ch <- name:
		case <-timer.C:
			slog.Error("Подписчик завис, сигнал записи потерян", "event", name, "wait", recordingWait)
		}
		timer.Stop()
	}
}

// Close останавливает доставку и ждёт, пока подписчики обработают очередь.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()

	b.wg.Wait()
}
