// Package icon рисует иконки трея.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"sync"
)

const size = 64

var (
	// Idle - серая иконка ожидания.
	Idle = lazy(color.RGBA{128, 128, 128, 255})
	// Recording - красная иконка записи.
	Recording = lazy(color.RGBA{220, 50, 50, 255})
)

// lazy возвращает функцию, рисующую иконку один раз.
func lazy(c color.RGBA) func() []byte {
	return sync.OnceValue(func() []byte {
		data := encodePNG(draw(c))
		if runtime.GOOS == "windows" {
			return wrapICO(data)
		}
		return data
	})
}

// draw рисует упрощённый микрофон: круг и ножку.
func draw(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	centerX, centerY := size/2, size/2
	radius := 20.0

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - centerX)
			dy := float64(y - centerY)
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}

	for y := centerY + int(radius); y < centerY+int(radius)+10 && y < size; y++ {
		for x := centerX - 3; x <= centerX+3; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	// Запись в bytes.Buffer не возвращает ошибок
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// wrapICO упаковывает PNG в контейнер ICO, который ждёт трей Windows.
func wrapICO(pngData []byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICONDIR
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{size, size, 0, 0})
	_ = binary.Write(&buf, le, [2]uint16{1, 32})
	_ = binary.Write(&buf, le, [2]uint32{uint32(len(pngData)), 6 + 16})

	buf.Write(pngData)
	return buf.Bytes()
}
