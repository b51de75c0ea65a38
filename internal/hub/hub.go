package hub

import (
	"encoding/json"
	"log"
)

type Event string

const (
	PostPublished Event = "post_published"
	PostChanged   Event = "post_changed"
	PostDeleted   Event = "post_deleted"
)

type message struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans out named events to every connected client. Delivery is
// at-most-once: slow clients are dropped, nothing is replayed.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

func New() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set. Start it in its own goroutine before serving.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Client cannot keep up, cut it loose.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Emit publishes an event to all currently connected clients.
func (h *Hub) Emit(event Event, data interface{}) {
	payload, err := json.Marshal(message{Event: event, Data: data})
	if err != nil {
		log.Printf("hub: failed to encode %s event: %v", event, err)
		return
	}
	h.broadcast <- payload
}
