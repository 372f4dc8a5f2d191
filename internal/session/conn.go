package session

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn abstracts one client connection. Send must be safe for concurrent
// use; broadcasts and the read loop's private replies interleave freely.
type Conn interface {
	Send(v any) error
	ReadMessage() ([]byte, error)
	Close() error
}

// wsConn wraps a gorilla websocket connection. Gorilla permits one
// concurrent writer, so every send takes the write mutex.
type wsConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// NewConn wraps an upgraded websocket connection.
func NewConn(ws *websocket.Conn) Conn {
	return &wsConn{ws: ws}
}

func (c *wsConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
