package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/models"
)

const sendBufferSize = 256

// RoomEvent is pushed to room board clients whenever a room changes.
type RoomEvent struct {
	Type string      `json:"type"`
	Room models.Room `json:"room"`
	At   time.Time   `json:"at"`
}

// RoomHub fans room events out to websocket clients. Slow clients are dropped
// rather than allowed to stall the broadcast loop.
type RoomHub struct {
	register   chan *roomClient
	unregister chan *roomClient
	broadcast  chan []byte
	clients    map[*roomClient]struct{}
	log        *zap.Logger
}

func NewRoomHub(log *zap.Logger) *RoomHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoomHub{
		register:   make(chan *roomClient),
		unregister: make(chan *roomClient),
		broadcast:  make(chan []byte, sendBufferSize),
		clients:    make(map[*roomClient]struct{}),
		log:        log,
	}
}

func (h *RoomHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// RoomChanged never blocks the caller; events are dropped when the hub is
// backed up.
func (h *RoomHub) RoomChanged(kind string, room models.Room) {
	if h == nil {
		return
	}
	data, err := json.Marshal(RoomEvent{Type: kind, Room: room, At: time.Now().UTC()})
	if err != nil {
		h.log.Warn("ws: failed to marshal room event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("ws: broadcast queue full, dropping event", zap.String("type", kind), zap.String("room_no", room.RoomNo))
	}
}
