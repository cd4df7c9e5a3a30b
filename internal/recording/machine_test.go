package recording

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tambourine/internal/config"
	"tambourine/internal/events"
	"tambourine/internal/history"
	"tambourine/internal/shortcut"
)

const (
	toggleKey = "Control+Alt+Space"
	holdKey   = "ctrl+alt+r"
	pasteKey  = "CTRL+ALT+V"
)

// callLog собирает вызовы всех фейков в одном порядке.
type callLog struct {
	mu    sync.Mutex
	calls []string
	at    []time.Time
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
	l.at = append(l.at, time.Now())
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.snapshot() {
		if c == name {
			n++
		}
	}
	return n
}

func (l *callLog) index(name string) int {
	for i, c := range l.snapshot() {
		if c == name {
			return i
		}
	}
	return -1
}

func (l *callLog) time(name string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.calls {
		if c == name {
			return l.at[i]
		}
	}
	return time.Time{}
}

type fakeCues struct{ log *callLog }

func (f fakeCues) PlayStart() { f.log.add("cue-start") }
func (f fakeCues) PlayStop()  { f.log.add("cue-stop") }

type fakeMuter struct {
	log *callLog
	err error
}

func (f fakeMuter) Mute() error {
	f.log.add("mute")
	return f.err
}

func (f fakeMuter) Unmute() error {
	f.log.add("unmute")
	return f.err
}

type fakeEmitter struct{ log *callLog }

func (f fakeEmitter) Emit(name string) { f.log.add(name) }

type fakeHistory struct {
	entries []history.Entry
	err     error
	limits  []int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeInjector struct {
	log   *callLog
	texts []string
	err   error
}

func (f *fakeInjector) Inject(text string) error {
	f.log.add("inject")
	f.texts = append(f.texts, text)
	return f.err
}

type harness struct {
	cfg      *config.Config
	flags    *Flags
	coord    *Coordinator
	machine  *Machine
	log      *callLog
	history  *fakeHistory
	injector *fakeInjector
}

type harnessOpts struct {
	settingsPath string
	muter        bool
	muteErr      error
	sound        bool
	autoMute     bool
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()
	log := &callLog{}
	cfg := config.New(opts.settingsPath)
	cfg.SetSoundEnabled(opts.sound)
	cfg.SetAutoMuteAudio(opts.autoMute)

	var muter Muter
	if opts.muter {
		muter = fakeMuter{log: log, err: opts.muteErr}
	}

	flags := &Flags{}
	coord := NewCoordinator(flags, fakeCues{log: log}, muter, fakeEmitter{log: log})
	coord.delay = 20 * time.Millisecond
	t.Cleanup(coord.Close)

	h := &fakeHistory{}
	inj := &fakeInjector{log: log}
	return &harness{
		cfg:      cfg,
		flags:    flags,
		coord:    coord,
		machine:  NewMachine(cfg, flags, coord, NewPasteLast(h, inj)),
		log:      log,
		history:  h,
		injector: inj,
	}
}

func (h *harness) send(key string, states ...shortcut.State) {
	for _, s := range states {
		h.machine.Handle(context.Background(), shortcut.Event{Shortcut: key, State: s})
	}
}

var (
	press   = shortcut.Pressed
	release = shortcut.Released
)

func TestToggleStartsAndStopsOnRelease(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	h.send(toggleKey, press)
	if h.flags.Recording.Load() || h.log.count(events.RecordingStarted) != 0 {
		t.Fatal("toggle must not start on press")
	}

	h.send(toggleKey, release)
	if !h.machine.IsRecording() {
		t.Fatal("recording should be true after first toggle gesture")
	}
	if n := h.log.count(events.RecordingStarted); n != 1 {
		t.Fatalf("start emitted %d times, want 1", n)
	}

	h.send(toggleKey, press, release)
	if h.machine.IsRecording() {
		t.Fatal("recording should be false after second toggle gesture")
	}
	if n := h.log.count(events.RecordingStopped); n != 1 {
		t.Fatalf("stop emitted %d times, want 1", n)
	}
}

func TestKeyRepeatImmunity(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		event string
	}{
		{name: "toggle", key: toggleKey, event: events.RecordingStarted},
		{name: "hold", key: holdKey, event: events.RecordingStarted},
		{name: "paste-last", key: pasteKey, event: "inject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOpts{})
			h.history.entries = []history.Entry{{ID: "1", Text: "hello"}}

			h.send(tt.key, press, press, press, release)

			if n := h.log.count(tt.event); n != 1 {
				t.Fatalf("%s happened %d times, want 1 (calls %v)", tt.event, n, h.log.snapshot())
			}
		})
	}
}

func TestSpuriousReleaseIsIgnored(t *testing.T) {
	for _, key := range []string{toggleKey, holdKey, pasteKey} {
		t.Run(key, func(t *testing.T) {
			h := newHarness(t, harnessOpts{sound: true})
			h.history.entries = []history.Entry{{ID: "1", Text: "hello"}}

			h.send(key, release)

			if calls := h.log.snapshot(); len(calls) != 0 {
				t.Fatalf("unexpected side effects: %v", calls)
			}
			if h.flags.Recording.Load() {
				t.Fatal("recording flag changed")
			}
		})
	}
}

func TestHoldRecordsWhileHeld(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	h.send(holdKey, press)
	if !h.machine.IsRecording() {
		t.Fatal("hold press must start recording")
	}
	if n := h.log.count(events.RecordingStarted); n != 1 {
		t.Fatalf("start emitted %d times", n)
	}

	// Без отпускания запись продолжается.
	time.Sleep(10 * time.Millisecond)
	if !h.machine.IsRecording() || h.log.count(events.RecordingStopped) != 0 {
		t.Fatal("recording must continue until release")
	}

	h.send(holdKey, release)
	if h.machine.IsRecording() {
		t.Fatal("hold release must stop recording")
	}
	if n := h.log.count(events.RecordingStopped); n != 1 {
		t.Fatalf("stop emitted %d times", n)
	}

	h.send(holdKey, release)
	if n := h.log.count(events.RecordingStopped); n != 1 {
		t.Fatalf("extra release stopped again: %d", n)
	}
}

func TestHoldPressIsExactlyOnceUnderConcurrency(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.send(holdKey, press)
		}()
	}
	wg.Wait()

	if n := h.log.count(events.RecordingStarted); n != 1 {
		t.Fatalf("concurrent presses started %d times, want 1", n)
	}
}

func TestPasteLastInjectsMostRecent(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	h.history.entries = []history.Entry{{ID: "2", Text: "latest"}, {ID: "1", Text: "older"}}

	h.send(pasteKey, press)
	if len(h.injector.texts) != 0 {
		t.Fatal("paste must happen on release")
	}
	h.send(pasteKey, release)

	if len(h.injector.texts) != 1 || h.injector.texts[0] != "latest" {
		t.Fatalf("injected %v", h.injector.texts)
	}
	if len(h.history.limits) != 1 || h.history.limits[0] != 1 {
		t.Fatalf("history queried with %v, want [1]", h.history.limits)
	}
	if h.flags.Recording.Load() {
		t.Fatal("paste-last must not touch the recording flag")
	}
}

func TestPasteLastEmptyHistory(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	h.send(pasteKey, press, release)

	if len(h.injector.texts) != 0 {
		t.Fatalf("unexpected injection: %v", h.injector.texts)
	}
}

func TestPasteLastFailuresAreNotFatal(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	h.history.err = errors.New("db locked")
	h.send(pasteKey, press, release)
	if len(h.injector.texts) != 0 {
		t.Fatal("must not inject when history fails")
	}

	h.history.err = nil
	h.history.entries = []history.Entry{{ID: "1", Text: "x"}}
	h.injector.err = errors.New("no focus")
	h.send(pasteKey, press, release)
	if len(h.injector.texts) != 1 {
		t.Fatalf("injection must be attempted exactly once, got %d", len(h.injector.texts))
	}
}

func TestUnknownShortcutIsDropped(t *testing.T) {
	h := newHarness(t, harnessOpts{sound: true})

	h.send("ctrl+shift+q", press, release)

	if calls := h.log.snapshot(); len(calls) != 0 {
		t.Fatalf("unexpected side effects: %v", calls)
	}
	if h.flags.ToggleHeld.Load() || h.flags.HoldHeld.Load() || h.flags.PasteHeld.Load() || h.flags.Recording.Load() {
		t.Fatal("unknown shortcut mutated a flag")
	}
}

func TestLiveSettingsChangeRoleKeys(t *testing.T) {
	h := newHarness(t, harnessOpts{settingsPath: filepath.Join(t.TempDir(), "settings.json")})

	hk := config.HotkeyConfig{Modifiers: []config.Modifier{config.ModCtrl, config.ModShift}, Key: config.KeyF9}
	if err := h.cfg.SetHotkey(shortcut.RoleToggle, hk); err != nil {
		t.Fatal(err)
	}

	// Старая клавиша больше не распознаётся.
	h.send(toggleKey, press, release)
	if h.machine.IsRecording() {
		t.Fatal("stale shortcut must be ignored")
	}

	h.send("Control+Shift+F9", press, release)
	if !h.machine.IsRecording() {
		t.Fatal("new shortcut must toggle recording")
	}
}

func TestDuplicateKeysTakeTogglePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{
		"hold_hotkey": {"modifiers": ["ctrl", "alt"], "key": "space"}
	}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, harnessOpts{settingsPath: path})

	h.send(toggleKey, press)
	if h.machine.IsRecording() {
		t.Fatal("shared key must act as Toggle (no start on press)")
	}
	if !h.flags.ToggleHeld.Load() || h.flags.HoldHeld.Load() {
		t.Fatal("only the toggle held-flag may change")
	}
}

func TestSideEffectOrdering(t *testing.T) {
	h := newHarness(t, harnessOpts{muter: true, sound: true, autoMute: true})

	h.send(toggleKey, press, release)
	h.send(toggleKey, press, release)
	h.coord.Close()

	cueStart, mute := h.log.index("cue-start"), h.log.index("mute")
	unmute, cueStop := h.log.index("unmute"), h.log.index("cue-stop")
	if cueStart < 0 || mute < 0 || unmute < 0 || cueStop < 0 {
		t.Fatalf("missing calls: %v", h.log.snapshot())
	}
	if cueStart > mute {
		t.Fatalf("start cue must precede mute: %v", h.log.snapshot())
	}
	if mute > unmute {
		t.Fatalf("unmute overtook deferred mute: %v", h.log.snapshot())
	}
	if unmute > cueStop {
		t.Fatalf("unmute must precede stop cue: %v", h.log.snapshot())
	}
	if gap := h.log.time("mute").Sub(h.log.time("cue-start")); gap < h.coord.delay {
		t.Fatalf("mute %v after cue, want at least %v", gap, h.coord.delay)
	}
}

func TestBeginDoesNotBlockOnMuteDelay(t *testing.T) {
	h := newHarness(t, harnessOpts{muter: true, sound: true, autoMute: true})
	h.coord.delay = time.Second

	start := time.Now()
	h.send(holdKey, press)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Begin blocked for %v", elapsed)
	}
	if h.log.count(events.RecordingStarted) != 1 {
		t.Fatal("start must be emitted immediately")
	}
}

func TestMuteWithoutSoundHasNoDelay(t *testing.T) {
	h := newHarness(t, harnessOpts{muter: true, autoMute: true})
	h.coord.delay = time.Second

	start := time.Now()
	h.send(holdKey, press, release)
	h.coord.Close()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("mute waited %v without a cue", elapsed)
	}
	if h.log.count("cue-start") != 0 || h.log.count("cue-stop") != 0 {
		t.Fatal("cues must not play when sound is disabled")
	}
	if h.log.index("mute") > h.log.index("unmute") {
		t.Fatalf("order: %v", h.log.snapshot())
	}
}

func TestMuteFailureDoesNotAbortTransition(t *testing.T) {
	h := newHarness(t, harnessOpts{muter: true, muteErr: errors.New("no mixer"), sound: true, autoMute: true})

	h.send(holdKey, press)
	if !h.machine.IsRecording() || h.log.count(events.RecordingStarted) != 1 || h.log.count("cue-start") != 1 {
		t.Fatalf("start incomplete: %v", h.log.snapshot())
	}
	h.send(holdKey, release)
	if h.machine.IsRecording() || h.log.count(events.RecordingStopped) != 1 || h.log.count("cue-stop") != 1 {
		t.Fatalf("stop incomplete: %v", h.log.snapshot())
	}
}

func TestUnsupportedMuterIsSkipped(t *testing.T) {
	h := newHarness(t, harnessOpts{sound: true, autoMute: true})

	h.send(toggleKey, press, release, press, release)

	want := []string{"cue-start", events.RecordingStarted, "cue-stop", events.RecordingStopped}
	got := h.log.snapshot()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}

func TestUnmuteAfterAutoMuteDisabledMidRecording(t *testing.T) {
	h := newHarness(t, harnessOpts{muter: true, autoMute: true})

	h.send(holdKey, press)
	h.cfg.SetAutoMuteAudio(false)
	h.send(holdKey, release)
	h.coord.Close()

	if h.log.count("unmute") != 1 {
		t.Fatalf("audio left muted: %v", h.log.snapshot())
	}
}
