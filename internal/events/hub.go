package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline      = 5 * time.Second
	maxReadMessageSize = 64 * 1024
)

// Сервер слушает только localhost, поэтому Origin не проверяем.
var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Типы сообщений.
const (
	TypeEvent      = "event"
	TypeAddHistory = "add_history"
)

// Message - JSON сообщение WebSocket в обе стороны.
type Message struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Text  string `json:"text,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Hub - WebSocket сервер событий для оверлея и других клиентов.
type Hub struct {
	addr string

	mu        sync.RWMutex
	clients   map[*client]struct{}
	onMessage func(Message)

	listener net.Listener
	server   *http.Server
	url      string
	stopOnce sync.Once
}

// NewHub создаёт сервер. Пустой addr - 127.0.0.1 с любым свободным портом.
func NewHub(addr string) *Hub {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	return &Hub{
		addr:    addr,
		clients: make(map[*client]struct{}),
	}
}

// OnMessage устанавливает обработчик входящих сообщений.
func (h *Hub) OnMessage(fn func(Message)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMessage = fn
}

// Start начинает слушать адрес и принимать соединения на /ws.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return errors.New("events: сервер уже запущен")
	}

	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("events: listen %s: %w", h.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)

	h.listener = ln
	h.url = "ws://" + ln.Addr().String() + "/ws"
	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Сервер событий остановлен с ошибкой", "error", err)
		}
	}()
	slog.Info("Сервер событий запущен", "url", h.url)
	return nil
}

// URL возвращает адрес для подключения клиентов.
func (h *Hub) URL() string {
	return h.url
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Не удалось принять WebSocket соединение", "error", err)
		return
	}
	conn.SetReadLimit(maxReadMessageSize)

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("Некорректное сообщение от клиента", "error", err)
			continue
		}

		h.mu.RLock()
		fn := h.onMessage
		h.mu.RUnlock()
		if fn != nil {
			fn(msg)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Emit рассылает событие всем подключённым клиентам.
func (h *Hub) Emit(name string) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := Message{Type: TypeEvent, Event: name}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			slog.Warn("Не удалось отправить событие клиенту", "event", name, "error", err)
			h.drop(c)
		}
	}
}

// Clients возвращает число подключённых клиентов.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop закрывает сервер и все соединения.
func (h *Hub) Stop() error {
	var err error
	h.stopOnce.Do(func() {
		if h.server == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = h.server.Shutdown(ctx)

		h.mu.Lock()
		for c := range h.clients {
			c.conn.Close()
			delete(h.clients, c)
		}
		h.mu.Unlock()
	})
	return err
}
