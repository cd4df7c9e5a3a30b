package notify

import (
	"testing"

	"tambourine/internal/events"
	"tambourine/internal/i18n"
)

type sent struct{ title, message string }

func newRecorded(enabled bool) (*Notifier, *[]sent) {
	var out []sent
	n := New(enabled)
	n.send = func(title, message string) error {
		out = append(out, sent{title, message})
		return nil
	}
	return n, &out
}

func TestHandleEvent(t *testing.T) {
	i18n.SetLanguage(i18n.EN)
	n, out := newRecorded(true)

	n.HandleEvent(events.RecordingStarted)
	n.HandleEvent(events.RecordingStopped)
	n.HandleEvent("something-else")

	if len(*out) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(*out))
	}
	if (*out)[0].title != "Tambourine: Recording..." {
		t.Fatalf("first title = %q", (*out)[0].title)
	}
	if (*out)[1].title != "Tambourine: Recording stopped" {
		t.Fatalf("second title = %q", (*out)[1].title)
	}
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	n, out := newRecorded(false)
	n.HandleEvent(events.RecordingStarted)
	n.Error("boom")
	if len(*out) != 0 {
		t.Fatalf("disabled notifier sent %v", *out)
	}

	n.SetEnabled(true)
	n.Info("hello")
	if len(*out) != 1 || (*out)[0].title != "Tambourine" {
		t.Fatalf("sent %v", *out)
	}
}
