package relay

import "sync"

// Client is one live relay connection. Send must be safe for concurrent use;
// delivery is best-effort, at-most-once.
type Client interface {
	SessionID() string
	Send(ev Event) error
}

// Hub tracks which connections are subscribed to which room and fans
// outbound events out to them.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[Client]struct{})}
}

func (h *Hub) Add(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[Client]struct{})
		h.rooms[roomID] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) Remove(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast delivers ev to every connection in the room except the one whose
// session identifier equals exceptSession. Send errors are ignored; a member
// that misses an event has no recovery path other than rejoining.
func (h *Hub) Broadcast(roomID, exceptSession string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		if c.SessionID() == exceptSession {
			continue
		}
		_ = c.Send(ev)
	}
}
