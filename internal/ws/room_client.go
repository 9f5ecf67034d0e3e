package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxInboundSz = 512
)

// roomClient is one room board connection. The board only listens, so
// inbound frames are read solely to service pongs and detect disconnects.
type roomClient struct {
	hub  *RoomHub
	conn *websocket.Conn
	send chan []byte
	log  *zap.Logger
}

func newRoomClient(hub *RoomHub, conn *websocket.Conn) *roomClient {
	return &roomClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		log:  hub.log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
}

// serve registers the client and blocks until the peer goes away.
func (c *roomClient) serve() {
	c.hub.register <- c
	c.log.Debug("ws: client connected")
	go c.pushEvents()
	c.awaitClose()
}

func (c *roomClient) awaitClose() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxInboundSz)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws: client connection lost", zap.Error(err))
			} else {
				c.log.Debug("ws: client disconnected", zap.Error(err))
			}
			return
		}
	}
}

// pushEvents drains the send queue onto the socket and keeps the peer alive
// with pings. It exits when the hub closes the queue or a write fails.
func (c *roomClient) pushEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		var err error
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Dropped by the hub, either on disconnect or for falling behind.
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			err = c.write(websocket.TextMessage, msg)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			c.log.Debug("ws: write failed, closing client", zap.Error(err))
			return
		}
	}
}

func (c *roomClient) write(messageType int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}
