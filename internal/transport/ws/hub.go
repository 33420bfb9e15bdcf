package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSuggestionNew      MessageType = "suggestion_new"
	MsgSuggestionResolved MessageType = "suggestion_resolved"
	MsgError              MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages operator WebSocket connections per tenant
type Hub struct {
	// tenantID -> operatorID -> connection
	operatorConns map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one operator's WebSocket connection
type Connection struct {
	TenantID   string
	OperatorID string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to fan out to a tenant's operators
type BroadcastMessage struct {
	TenantID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		operatorConns: make(map[string]map[string]*Connection),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.operatorConns[conn.TenantID] == nil {
				h.operatorConns[conn.TenantID] = make(map[string]*Connection)
			}
			if prev, ok := h.operatorConns[conn.TenantID][conn.OperatorID]; ok {
				close(prev.Send)
			}
			h.operatorConns[conn.TenantID][conn.OperatorID] = conn
			h.mu.Unlock()
			log.Printf("Operator %s connected for tenant %s", conn.OperatorID, conn.TenantID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if operators, ok := h.operatorConns[conn.TenantID]; ok {
				if existing, ok := operators[conn.OperatorID]; ok && existing == conn {
					delete(operators, conn.OperatorID)
					close(conn.Send)
					log.Printf("Operator %s disconnected from tenant %s", conn.OperatorID, conn.TenantID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Printf("Failed to marshal broadcast message: %v", err)
				continue
			}
			h.mu.RLock()
			for _, conn := range h.operatorConns[msg.TenantID] {
				select {
				case conn.Send <- data:
				default:
					// Slow consumer; drop the message rather than
					// block the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToTenant implements service.Broadcaster
func (h *Hub) BroadcastToTenant(tenantID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal payload for %s: %v", msgType, err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		TenantID: tenantID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
