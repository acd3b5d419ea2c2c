package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// WebSocket control message types
const (
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeJoinRoom  = "join_room"
	MessageTypeLeaveRoom = "leave_room"
	MessageTypeError     = "error"

	// Server-pushed event types
	EventTypeNewMessage     = "new_message"
	EventTypeRoomListUpdate = "room_list_update"
	EventTypeAppointmentSet = "appointment_set"
)

// WSMessage is the envelope for everything that crosses the socket.
type WSMessage struct {
	Type      string      `json:"type"`
	RoomID    string      `json:"room_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewEvent builds a server-pushed event payload.
func NewEvent(eventType, roomID string, data interface{}) []byte {
	payload, err := json.Marshal(WSMessage{
		Type:      eventType,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("WebSocket: failed to marshal %s event: %v", eventType, err)
		return nil
	}
	return payload
}

// HandleClientMessage processes an incoming control message from a client.
func (m *Manager) HandleClientMessage(client *Client, payload []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(payload, &wsMessage); err != nil {
		log.Printf("WebSocket: invalid message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})

	case MessageTypeJoinRoom:
		if wsMessage.RoomID == "" {
			m.sendErrorToClient(client, "Missing room id")
			return
		}
		m.JoinRoom(wsMessage.RoomID, client.UserID)

	case MessageTypeLeaveRoom:
		if wsMessage.RoomID == "" {
			m.sendErrorToClient(client, "Missing room id")
			return
		}
		m.LeaveRoom(wsMessage.RoomID, client.UserID)

	default:
		log.Printf("WebSocket: unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("WebSocket: dropping message for slow client %s", client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, message string) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypeError,
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
