//go:build !linux && !darwin

package mute

func platformMixer() mixer {
	return nil
}
