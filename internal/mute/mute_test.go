package mute

import (
	"errors"
	"testing"
)

type fakeMixer struct {
	ok       bool
	state    bool
	sets     []bool
	queryErr error
}

func (f *fakeMixer) available() bool { return f.ok }

func (f *fakeMixer) muted() (bool, error) { return f.state, f.queryErr }

func (f *fakeMixer) setMuted(on bool) error {
	f.sets = append(f.sets, on)
	f.state = on
	return nil
}

func TestNewUnsupported(t *testing.T) {
	if _, err := newManager(nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("nil mixer: %v", err)
	}
	if _, err := newManager(&fakeMixer{ok: false}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("unavailable mixer: %v", err)
	}
}

func TestMuteUnmuteRoundTrip(t *testing.T) {
	mx := &fakeMixer{ok: true}
	m, err := newManager(mx)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Mute(); err != nil {
		t.Fatal(err)
	}
	if err := m.Mute(); err != nil {
		t.Fatal(err)
	}
	if err := m.Unmute(); err != nil {
		t.Fatal(err)
	}
	if err := m.Unmute(); err != nil {
		t.Fatal(err)
	}

	if len(mx.sets) != 2 || mx.sets[0] != true || mx.sets[1] != false {
		t.Fatalf("sets = %v", mx.sets)
	}
}

func TestUnmuteKeepsUserMute(t *testing.T) {
	mx := &fakeMixer{ok: true, state: true}
	m, _ := newManager(mx)

	if err := m.Mute(); err != nil {
		t.Fatal(err)
	}
	if err := m.Unmute(); err != nil {
		t.Fatal(err)
	}
	if len(mx.sets) != 0 || !mx.state {
		t.Fatalf("user mute was changed: sets=%v state=%v", mx.sets, mx.state)
	}
}

func TestMuteQueryError(t *testing.T) {
	mx := &fakeMixer{ok: true, queryErr: errors.New("no server")}
	m, _ := newManager(mx)
	if err := m.Mute(); err == nil {
		t.Fatal("expected error")
	}
	if err := m.Unmute(); err != nil {
		t.Fatalf("Unmute after failed Mute: %v", err)
	}
}
