package recording

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tambourine/internal/config"
	"tambourine/internal/events"
)

// MuteDelay - через сколько после запуска стартового сигнала глушится звук,
// чтобы сигнал был слышен.
const MuteDelay = 150 * time.Millisecond

type muteOp struct {
	mute      bool
	notBefore time.Time
	done      chan struct{}
}

// Coordinator выполняет побочные эффекты начала и конца записи: звуковые
// сигналы, заглушение системного звука и рассылку событий.
//
// Заглушение выполняет отдельная горутина: Begin только ставит его в очередь
// с отметкой "не раньше", поэтому поток хука не спит. Восстановление звука
// встаёт в ту же очередь и не может обогнать отложенное заглушение.
type Coordinator struct {
	recording *atomic.Bool
	cues      CuePlayer
	muter     Muter
	emitter   Emitter
	delay     time.Duration

	// muteRequested - Begin просил заглушить звук, End должен его вернуть
	// даже если auto_mute_audio выключили во время записи.
	muteRequested atomic.Bool

	mu     sync.Mutex
	ops    chan muteOp
	done   chan struct{}
	closed bool
}

// NewCoordinator создаёт координатор. muter может быть nil, если на платформе
// заглушение не поддерживается.
func NewCoordinator(flags *Flags, cues CuePlayer, muter Muter, emitter Emitter) *Coordinator {
	c := &Coordinator{
		recording: &flags.Recording,
		cues:      cues,
		muter:     muter,
		emitter:   emitter,
		delay:     MuteDelay,
	}
	if muter != nil {
		c.ops = make(chan muteOp, 8)
		c.done = make(chan struct{})
		go c.muteLoop()
	}
	return c
}

// Begin начинает запись: флаг записи, стартовый сигнал, затем (не раньше чем
// через MuteDelay после сигнала) заглушение звука, и событие RecordingStarted.
func (c *Coordinator) Begin(s config.Snapshot, source string) {
	c.recording.Store(true)
	slog.Info(source + ": начало записи")

	notBefore := time.Now()
	if s.SoundEnabled {
		c.cues.PlayStart()
		notBefore = notBefore.Add(c.delay)
	}

	if s.AutoMuteAudio && c.muter != nil {
		c.muteRequested.Store(true)
		c.enqueue(muteOp{mute: true, notBefore: notBefore})
	}

	c.emitter.Emit(events.RecordingStarted)
}

// End останавливает запись: флаг записи, восстановление звука, затем
// стоповый сигнал (чтобы он был слышен) и событие RecordingStopped.
func (c *Coordinator) End(s config.Snapshot, source string) {
	c.recording.Store(false)
	slog.Info(source + ": остановка записи")

	requested := c.muteRequested.Swap(false)
	if (s.AutoMuteAudio || requested) && c.muter != nil {
		done := make(chan struct{})
		if c.enqueue(muteOp{mute: false, done: done}) {
			<-done
		}
	}

	if s.SoundEnabled {
		c.cues.PlayStop()
	}

	c.emitter.Emit(events.RecordingStopped)
}

func (c *Coordinator) enqueue(op muteOp) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		slog.Debug("Координатор закрыт, заглушение пропущено", "mute", op.mute)
		return false
	}
	c.ops <- op
	return true
}

func (c *Coordinator) muteLoop() {
	defer close(c.done)

	for op := range c.ops {
		if d := time.Until(op.notBefore); d > 0 {
			time.Sleep(d)
		}

		var err error
		if op.mute {
			err = c.muter.Mute()
		} else {
			err = c.muter.Unmute()
		}
		if err != nil {
			if op.mute {
				slog.Warn("Не удалось заглушить звук", "error", err)
			} else {
				slog.Warn("Не удалось восстановить звук", "error", err)
			}
		}

		if op.done != nil {
			close(op.done)
		}
	}
}

// Close выполняет оставшиеся операции со звуком и останавливает горутину.
func (c *Coordinator) Close() {
	if c.muter == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.ops)
	c.mu.Unlock()

	<-c.done
}
