//go:build darwin

package mute

import (
	"fmt"
	"os/exec"
	"strings"
)

type osascriptMixer struct{}

func platformMixer() mixer {
	return osascriptMixer{}
}

func (osascriptMixer) available() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (osascriptMixer) muted() (bool, error) {
	out, err := exec.Command("osascript", "-e", "output muted of (get volume settings)").Output()
	if err != nil {
		return false, fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

func (osascriptMixer) setMuted(on bool) error {
	script := "set volume without output muted"
	if on {
		script = "set volume with output muted"
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
