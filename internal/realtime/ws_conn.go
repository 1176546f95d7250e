package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultWriteWait = 10 * time.Second

// WSConn adapts a gorilla websocket to Conn. gorilla allows one concurrent
// writer, so every write goes through writeMu.
type WSConn struct {
	ID string

	ws        *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

var _ Conn = (*WSConn)(nil)

func NewWSConn(ws *websocket.Conn) *WSConn {
	return &WSConn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

func (c *WSConn) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(defaultWriteWait)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

func (c *WSConn) Ping(timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeout))
}

// Socket exposes the underlying websocket for the read loop. Reads are only
// ever done by one goroutine.
func (c *WSConn) Socket() *websocket.Conn {
	return c.ws
}

func (c *WSConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
