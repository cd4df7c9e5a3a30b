package main

import (
	"io"

	"go.yaml.in/yaml/v3"

	"tambourine/internal/config"
	"tambourine/internal/mute"
)

type reportBinding struct {
	Role     string `yaml:"role"`
	Hotkey   string `yaml:"hotkey"`
	Key      string `yaml:"key"`
	Fallback bool   `yaml:"fallback,omitempty"`
}

type report struct {
	Config    string          `yaml:"config"`
	Bindings  []reportBinding `yaml:"bindings"`
	Conflicts [][]string      `yaml:"conflicts,omitempty"`
	AutoMute  bool            `yaml:"audio_mute_supported"`
}

func buildReport(path string, compile config.Compiler) report {
	b := config.ReadInitial(path, compile)

	r := report{Config: path, AutoMute: mute.Supported()}
	for _, x := range b {
		r.Bindings = append(r.Bindings, reportBinding{
			Role:     x.Role.String(),
			Hotkey:   x.Hotkey.String(),
			Key:      x.Key,
			Fallback: x.Fallback,
		})
	}
	for _, c := range b.Conflicts() {
		r.Conflicts = append(r.Conflicts, []string{c[0].String(), c[1].String()})
	}
	return r
}

// writeReport печатает горячие клавиши так, как их увидит приложение при старте.
func writeReport(w io.Writer, path string, compile config.Compiler) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildReport(path, compile)); err != nil {
		return err
	}
	return enc.Close()
}
