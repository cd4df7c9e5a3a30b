package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()

	var (
		mu  sync.Mutex
		got []string
	)
	bus.Subscribe(func(name string) {
		mu.Lock()
		got = append(got, name)
		mu.Unlock()
	})

	bus.Emit(RecordingStarted)
	bus.Emit(RecordingStopped)
	bus.Emit(RecordingStarted)
	bus.Close()

	want := []string{RecordingStarted, RecordingStopped, RecordingStarted}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBusEmitAfterCloseIsNoop(t *testing.T) {
	bus := NewBus()
	called := false
	bus.Subscribe(func(string) { called = true })
	bus.Close()
	bus.Emit(RecordingStarted)
	bus.Close()
	if called {
		t.Fatal("subscriber called after Close")
	}
}

func TestBusWaitsForSlowSubscriberOnRecordingSignals(t *testing.T) {
	bus := NewBus()

	started := make(chan struct{})
	release := make(chan struct{})
	var (
		mu  sync.Mutex
		got []string
	)
	bus.Subscribe(func(name string) {
		mu.Lock()
		first := len(got) == 0
		got = append(got, name)
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
	})

	bus.Emit("noise")
	<-started
	for i := 0; i < subscriberQueue; i++ {
		bus.Emit("noise")
	}
	// Очередь полна: обычное событие отбрасывается
	bus.Emit("noise")

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	bus.Emit(RecordingStopped)
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != subscriberQueue+2 {
		t.Fatalf("delivered %d events, want %d", len(got), subscriberQueue+2)
	}
	if got[len(got)-1] != RecordingStopped {
		t.Fatalf("last event = %q, want %q", got[len(got)-1], RecordingStopped)
	}
}

func TestBusGivesUpOnStuckSubscriber(t *testing.T) {
	prev := recordingWait
	recordingWait = 20 * time.Millisecond
	t.Cleanup(func() { recordingWait = prev })

	bus := NewBus()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	bus.Subscribe(func(string) {
		once.Do(func() { close(started) })
		<-release
	})

	bus.Emit(RecordingStarted)
	<-started
	for i := 0; i < subscriberQueue; i++ {
		bus.Emit("noise")
	}

	begin := time.Now()
	bus.Emit(RecordingStopped)
	if waited := time.Since(begin); waited < recordingWait || waited > time.Second {
		t.Fatalf("Emit waited %v, want about %v", waited, recordingWait)
	}

	close(release)
	bus.Close()
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("127.0.0.1:0")
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { hub.Stop() })
	return hub
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(hub.URL(), nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if !waitForCondition(t, 2*time.Second, func() bool { return hub.Clients() > 0 }) {
		t.Fatal("timed out waiting for client registration")
	}
	return conn
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub := startHub(t)
	conn := dialHub(t, hub)

	hub.Emit(RecordingStarted)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != TypeEvent || msg.Event != RecordingStarted {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestHubDispatchesIncomingMessages(t *testing.T) {
	hub := startHub(t)

	got := make(chan Message, 1)
	hub.OnMessage(func(m Message) { got <- m })

	conn := dialHub(t, hub)
	if err := conn.WriteJSON(Message{Type: TypeAddHistory, Text: "hello"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	select {
	case m := <-got:
		if m.Type != TypeAddHistory || m.Text != "hello" {
			t.Fatalf("msg = %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := startHub(t)
	conn := dialHub(t, hub)
	conn.Close()

	if !waitForCondition(t, 2*time.Second, func() bool { return hub.Clients() == 0 }) {
		t.Fatal("closed client was not dropped")
	}
	hub.Emit(RecordingStopped)
}
