// Package cue готовит звуковые сигналы начала и конца записи: встроенные
// тоны или пользовательские WAV файлы.
package cue

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// SampleRate - частота встроенных сигналов.
const SampleRate = 44100

// Sound - моно сигнал в float32 [-1, 1].
type Sound struct {
	Samples []float32
	Rate    int
	// Freq - основная частота, для запасного варианта через системный beep.
	Freq float64
}

// Duration возвращает длительность сигнала.
func (s Sound) Duration() time.Duration {
	if s.Rate == 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.Rate)
}

// Start - восходящий двухтональный сигнал начала записи.
func Start() Sound {
	return Tone([]float64{660, 880}, 70*time.Millisecond)
}

// Stop - нисходящий сигнал конца записи.
func Stop() Sound {
	return Tone([]float64{880, 660}, 70*time.Millisecond)
}

// Tone синтезирует последовательность синусоид длительностью each каждая.
func Tone(freqs []float64, each time.Duration) Sound {
	n := int(float64(SampleRate) * each.Seconds())
	// Короткие нарастание и затухание убирают щелчки
	fade := n / 10

	out := make([]float32, 0, n*len(freqs))
	for _, f := range freqs {
		for i := 0; i < n; i++ {
			gain := 0.4
			if i < fade {
				gain *= float64(i) / float64(fade)
			} else if i >= n-fade {
				gain *= float64(n-i) / float64(fade)
			}
			v := gain * math.Sin(2*math.Pi*f*float64(i)/SampleRate)
			out = append(out, float32(v))
		}
	}

	var freq float64
	if len(freqs) > 0 {
		freq = freqs[0]
	}
	return Sound{Samples: out, Rate: SampleRate, Freq: freq}
}

// LoadWAV читает PCM WAV файл и сводит его в моно.
func LoadWAV(path string) (Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sound{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Sound{}, fmt.Errorf("%s: не WAV файл", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Sound{}, fmt.Errorf("%s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return Sound{}, errors.New(path + ": некорректный формат")
	}

	depth := int(d.BitDepth)
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))
	ch := buf.Format.NumChannels

	samples := make([]float32, 0, len(buf.Data)/ch)
	for i := 0; i+ch <= len(buf.Data); i += ch {
		var sum float64
		for j := 0; j < ch; j++ {
			sum += float64(buf.Data[i+j])
		}
		samples = append(samples, float32(sum/float64(ch)/scale))
	}

	return Sound{Samples: samples, Rate: buf.Format.SampleRate, Freq: 880}, nil
}

// LoadOr загружает WAV из path или возвращает def, если path пуст или файл не читается.
func LoadOr(path string, def Sound) (Sound, error) {
	if path == "" {
		return def, nil
	}
	s, err := LoadWAV(path)
	if err != nil {
		return def, err
	}
	return s, nil
}
