package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"notes-api/internal/domain"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

type Options struct {
	MaxClients     int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
}

// Manager fans note events out to every connected client. The client set is
// owned by the Run goroutine; the mutex only guards reads from other goroutines.
type Manager struct {
	clients        map[string]*Client
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	broadcast      chan []byte
	done           chan struct{}
	maxClients     int
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	log            *slog.Logger
}

func NewManager(opts Options, log *slog.Logger) *Manager {
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	if opts.PongWait <= 0 {
		opts.PongWait = 60 * time.Second
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = opts.PongWait * 9 / 10
	}

	return &Manager{
		clients:        make(map[string]*Client),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		broadcast:      make(chan []byte, 256),
		done:           make(chan struct{}),
		maxClients:     opts.MaxClients,
		maxMessageSize: opts.MaxMessageSize,
		writeWait:      opts.WriteWait,
		pongWait:       opts.PongWait,
		pingPeriod:     opts.PingPeriod,
		log:            log.With("component", "websocket"),
	}
}

// Run serves the manager until ctx is cancelled, then closes every client.
func (m *Manager) Run(ctx context.Context) {
	defer m.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case message := <-m.broadcast:
			m.broadcastMessage(message)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)
		}
	}
}

// Publish queues a note event for every client. It never blocks; when the
// queue is full the event is dropped.
func (m *Manager) Publish(event *domain.NoteEvent) {
	msg, err := NewNoteEventMessage(event)
	if err != nil {
		m.log.Error("failed to build event message", "type", event.Type, "error", err)
		return
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		m.log.Error("failed to encode event message", "type", event.Type, "error", err)
		return
	}

	select {
	case m.broadcast <- messageBytes:
	default:
		m.log.Warn("broadcast queue full, dropping event", "type", event.Type, "id", event.ID)
	}
}

func (m *Manager) ClientCount() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return len(m.clients)
}

// Attach hands the client to Run. It returns false once the manager stopped.
func (m *Manager) Attach(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) unregister(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.maxClients > 0 && len(m.clients) >= m.maxClients {
		m.log.Warn("max connections reached, rejecting client", "client", client.ID)
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.log.Debug("client registered", "client", client.ID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	m.removeLocked(client)
}

func (m *Manager) removeLocked(client *Client) {
	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
		m.log.Debug("client unregistered", "client", client.ID)
	}
}

func (m *Manager) broadcastMessage(message []byte) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		select {
		case client.Send <- message:
		default:
			m.log.Warn("client send buffer full, closing connection", "client", id)
			m.removeLocked(client)
		}
	}
}

func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		m.log.Debug("error unmarshaling message", "client", clientMsg.Client.ID, "error", err)
		return
	}

	switch msg.Type {
	case TypePing:
		m.sendTo(clientMsg.Client, TypePong)
	default:
		m.log.Debug("unknown message type", "client", clientMsg.Client.ID, "type", msg.Type)
	}
}

func (m *Manager) sendTo(client *Client, msgType MessageType) {
	msg, err := NewMessage(msgType, nil)
	if err != nil {
		return
	}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	select {
	case client.Send <- messageBytes:
	default:
		m.log.Warn("client send buffer full", "client", client.ID)
	}
}

func (m *Manager) shutdown() {
	close(m.done)

	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for _, client := range m.clients {
		m.removeLocked(client)
	}
}
