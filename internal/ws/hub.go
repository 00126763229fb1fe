package ws

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EventMessage     = "new_message"
	EventMessageRead = "message_read"
	EventActivity    = "activity"
)

// Event is pushed to connected CRM clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// delivery is an event and the users it is addressed to; an empty
// recipient list means every connected client.
type delivery struct {
	event      *Event
	recipients map[string]bool
}

// Hub keeps the active WebSocket clients and fans events out to them.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan *delivery
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		deliver:    make(chan *delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run starts the event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case d := <-h.deliver:
			data, err := json.Marshal(d.event)
			if err != nil {
				h.log.With(sl.Err(err)).Error("marshal event")
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if len(d.recipients) > 0 && !d.recipients[client.userID] {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Connected returns the number of live connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) push(event *Event, userIDs ...string) {
	d := &delivery{event: event}
	if len(userIDs) > 0 {
		d.recipients = make(map[string]bool, len(userIDs))
		for _, id := range userIDs {
			d.recipients[id] = true
		}
	}
	select {
	case h.deliver <- d:
	default:
		h.log.Warn("event queue full, dropping event", slog.String("type", event.Type))
	}
}

// PushMessage delivers an internal message to its sender and recipient,
// or to everyone for a broadcast.
func (h *Hub) PushMessage(msg *entity.InternalMessage) {
	event := &Event{Type: EventMessage, Data: msg}
	if msg.IsBroadcast() {
		h.push(event)
		return
	}
	h.push(event, msg.SenderID, msg.RecipientID)
}

// PushRead tells the sender that a message was read.
func (h *Hub) PushRead(msg *entity.InternalMessage, readerID string) {
	h.push(&Event{
		Type: EventMessageRead,
		Data: map[string]string{"id": msg.ID, "readBy": readerID},
	}, msg.SenderID)
}

// PushActivity feeds a new activity log entry to every connected client.
func (h *Hub) PushActivity(log *entity.ActivityLog) {
	h.push(&Event{Type: EventActivity, Data: log})
}
