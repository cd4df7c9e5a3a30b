//go:build linux

package mute

import (
	"fmt"
	"os/exec"
	"strings"
)

// pactlMixer работает через pactl (PulseAudio и PipeWire).
type pactlMixer struct{}

func platformMixer() mixer {
	return pactlMixer{}
}

func (pactlMixer) available() bool {
	_, err := exec.LookPath("pactl")
	return err == nil
}

func (pactlMixer) muted() (bool, error) {
	out, err := exec.Command("pactl", "get-sink-mute", "@DEFAULT_SINK@").Output()
	if err != nil {
		return false, fmt.Errorf("pactl get-sink-mute: %w", err)
	}
	// "Mute: yes" / "Mute: no"
	return strings.Contains(strings.ToLower(string(out)), "yes"), nil
}

func (pactlMixer) setMuted(on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	if err := exec.Command("pactl", "set-sink-mute", "@DEFAULT_SINK@", v).Run(); err != nil {
		return fmt.Errorf("pactl set-sink-mute: %w", err)
	}
	return nil
}
