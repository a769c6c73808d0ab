package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Observers send nothing with business meaning; anything larger than a
	// control frame is a misbehaving client.
	maxMessageSize = 512
)

// client is one connected observer. Writes go through the buffered send
// channel and a single writePump goroutine, since gorilla connections
// support only one concurrent writer.
type client struct {
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, remoteAddr string) *client {
	return &client{
		conn:       conn,
		send:       make(chan []byte, 16),
		remoteAddr: remoteAddr,
	}
}

// close releases the connection and wakes the writePump. Safe to call from
// both the hub loop and the pumps.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes and discards inbound frames, handling pongs and close.
// onClose runs exactly once when the connection is gone.
func (c *client) readPump(onClose func()) {
	defer func() {
		onClose()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
