// Package audio воспроизводит звуковые сигналы через PortAudio.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gordonklaus/portaudio"

	"tambourine/internal/cue"
)

// FramesPerBuffer - размер буфера вывода.
const FramesPerBuffer = 512

// Player проигрывает сигналы начала и конца записи. Воспроизведение идёт в
// отдельной горутине, PlayStart/PlayStop возвращаются сразу.
type Player struct {
	// playMu не даёт двум сигналам играть одновременно
	playMu sync.Mutex

	mu       sync.RWMutex
	start    cue.Sound
	stop     cue.Sound
	hasAudio bool
}

// New создаёт Player. Если PortAudio недоступен, сигналы играются системным beep.
func New() *Player {
	p := &Player{
		start: cue.Start(),
		stop:  cue.Stop(),
	}
	if err := portaudio.Initialize(); err != nil {
		slog.Warn("PortAudio недоступен, используется системный сигнал", "error", err)
	} else {
		p.hasAudio = true
	}
	return p
}

// SetCues задаёт пользовательские WAV файлы. Пустой путь - встроенный сигнал.
func (p *Player) SetCues(startPath, stopPath string) {
	start, err := cue.LoadOr(startPath, cue.Start())
	if err != nil {
		slog.Warn("Не удалось загрузить стартовый сигнал", "path", startPath, "error", err)
	}
	stop, err := cue.LoadOr(stopPath, cue.Stop())
	if err != nil {
		slog.Warn("Не удалось загрузить стоповый сигнал", "path", stopPath, "error", err)
	}

	p.mu.Lock()
	p.start, p.stop = start, stop
	p.mu.Unlock()
}

// PlayStart запускает сигнал начала записи.
func (p *Player) PlayStart() {
	p.mu.RLock()
	s := p.start
	p.mu.RUnlock()
	go p.play(s)
}

// PlayStop запускает сигнал конца записи.
func (p *Player) PlayStop() {
	p.mu.RLock()
	s := p.stop
	p.mu.RUnlock()
	go p.play(s)
}

func (p *Player) play(s cue.Sound) {
	p.playMu.Lock()
	defer p.playMu.Unlock()

	if !p.hasAudio {
		p.beep(s)
		return
	}
	if err := playStream(s); err != nil {
		slog.Warn("Ошибка воспроизведения сигнала", "error", err)
		p.beep(s)
	}
}

func (p *Player) beep(s cue.Sound) {
	ms := int(s.Duration() / time.Millisecond)
	if err := beeep.Beep(s.Freq, ms); err != nil {
		slog.Debug("Системный сигнал недоступен", "error", err)
	}
}

func playStream(s cue.Sound) error {
	buf := make([]float32, FramesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(s.Rate), len(buf), buf)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for off := 0; off < len(s.Samples); off += len(buf) {
		n := copy(buf, s.Samples[off:])
		// Хвост буфера заполняем тишиной
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return err
		}
	}
	return nil
}

// Close освобождает ресурсы.
func (p *Player) Close() {
	p.playMu.Lock()
	defer p.playMu.Unlock()
	if p.hasAudio {
		portaudio.Terminate()
		p.hasAudio = false
	}
}
