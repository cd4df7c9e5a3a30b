//go:build linux

package input

import (
	"fmt"
	"os"
	"os/exec"
)

type linuxTyper struct {
	useWayland bool
}

func newTyper() (Typer, error) {
	t := &linuxTyper{
		useWayland: isWayland(),
	}
	tool := "xdotool"
	if t.useWayland {
		tool = "wtype"
	}
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("%s не найден: %w", tool, err)
	}
	return t, nil
}

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

func (t *linuxTyper) Type(text string) error {
	if t.useWayland {
		return exec.Command("wtype", "--", text).Run()
	}
	return exec.Command("xdotool", "type", "--clearmodifiers", "--", text).Run()
}

// sendPaste нажимает Ctrl+V в активном окне.
func sendPaste() error {
	if isWayland() {
		return exec.Command("wtype", "-M", "ctrl", "v", "-m", "ctrl").Run()
	}
	return exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v").Run()
}
