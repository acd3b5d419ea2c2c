package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one connected screen for a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks connected clients and which chat rooms each one has open,
// and fans live events out to them.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool // roomID -> set of userIDs
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				for _, members := range m.rooms {
					delete(members, client.UserID)
				}
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// JoinRoom marks the user as having the room open; room events are delivered
// to them until they leave or disconnect.
func (m *Manager) JoinRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]bool)
	}
	m.rooms[roomID][userID] = true
}

func (m *Manager) LeaveRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.rooms[roomID], userID)
}

// SendToUser sends a payload to a specific user if they are connected.
// Sends happen under the read lock: a client's Send channel is only closed
// under the write lock, after the client has left the registry, so a send
// can never hit a closed channel.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("Dropping payload for slow client %s", userID)
	}
}

// SendToRoom sends a payload to every connected user that has the room open,
// excluding excludeUserID. Sends are non-blocking, so holding the read lock
// across the fanout is safe.
func (m *Manager) SendToRoom(roomID string, payload []byte, excludeUserID string) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for userID := range m.rooms[roomID] {
		if userID == excludeUserID {
			continue
		}
		client, ok := m.clients[userID]
		if !ok {
			continue
		}

		select {
		case client.Send <- payload:
		default:
			log.Printf("Dropping room payload for slow client %s", client.UserID)
		}
	}
}

// ReadPump reads control messages (join/leave/ping) from the connection.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		m.HandleClientMessage(c, payload)
	}
}

// WritePump sends queued payloads to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
