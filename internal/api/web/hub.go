package web

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// CommandExecutor выполняет команды оператора
type CommandExecutor interface {
	Execute(ctx context.Context, cmd entity.Command) (entity.SystemStatus, error)
	Status() entity.SystemStatus
}

// HubMetrics учёт клиентов; может быть nil
type HubMetrics interface {
	ClientConnected()
	ClientDisconnected()
	EventDropped()
}

// inbound сообщение от панели: {"event": "start_detection"}
type inbound struct {
	Event entity.Command  `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub рассылает события всем подключённым WebSocket-клиентам
type Hub struct {
	exec    CommandExecutor
	metrics HubMetrics

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub создаёт хаб; exec получает входящие команды
func NewHub(exec CommandExecutor, metrics HubMetrics) *Hub {
	return &Hub{
		exec:    exec,
		metrics: metrics,
		clients: make(map[*client]struct{}),
	}
}

// SetExecutor задаёт получателя команд; вызывать до запуска сервера
func (h *Hub) SetExecutor(exec CommandExecutor) {
	h.exec = exec
}

// Publish кодирует событие один раз и ставит его в очередь каждому клиенту.
// Клиент с полной очередью событие пропускает. item_inspected панели не нужен.
func (h *Hub) Publish(event entity.Event) {
	if event.Name == entity.EventItemInspected {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Name)).Msg("encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, payload)
	}
}

func (h *Hub) enqueue(c *client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		if h.metrics != nil {
			h.metrics.EventDropped()
		}
		log.Debug().Str("client_id", c.id).Msg("send queue full, event dropped")
	}
}

// Count число подключённых клиентов
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve обслуживает подключение до его закрытия
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	log.Info().Str("client_id", c.id).Str("remote", conn.RemoteAddr().String()).Msg("dashboard connected")

	// новому клиенту сразу сообщаем текущее состояние
	if h.exec != nil {
		h.sendTo(c, entity.Event{Name: entity.EventSystemStatus, Data: h.exec.Status()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go h.writePump(c)
	h.readPump(ctx, c)
	cancel()

	h.unregister(c)
	log.Info().Str("client_id", c.id).Msg("dashboard disconnected")
}

// Close отключает всех клиентов и перестаёт принимать новых
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.ClientConnected()
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		if h.metrics != nil {
			h.metrics.ClientDisconnected()
		}
	}
	h.mu.Unlock()

	// после удаления из карты Publish больше не пишет в канал
	c.once.Do(func() { close(c.send) })
}

func (h *Hub) sendTo(c *client, event entity.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Name)).Msg("encode event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, payload)
	}
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("websocket read")
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn().Err(err).Str("client_id", c.id).Msg("malformed command")
			continue
		}
		h.dispatch(ctx, c, msg.Event)
	}
}

func (h *Hub) dispatch(ctx context.Context, c *client, cmd entity.Command) {
	if h.exec == nil {
		return
	}
	log.Info().Str("client_id", c.id).Str("command", string(cmd)).Msg("command received")

	status, err := h.exec.Execute(ctx, cmd)
	switch {
	case err == nil && cmd == entity.CommandGetStatus:
		h.sendTo(c, entity.Event{Name: entity.EventSystemStatus, Data: status})
	case errors.Is(err, entity.ErrUnknownCommand):
		// ответ только отправителю
		status.Message = "Unknown command: " + string(cmd)
		h.sendTo(c, entity.Event{Name: entity.EventSystemStatus, Data: status})
	case err != nil:
		log.Warn().Err(err).Str("command", string(cmd)).Msg("command failed")
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ port.EventPublisher = (*Hub)(nil)
