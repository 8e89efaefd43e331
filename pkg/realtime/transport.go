package realtime

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// Conn is one established push connection.
type Conn interface {
	// ReadMessage blocks until the next message or a transport error.
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Transport opens push connections. The production implementation speaks
// WebSocket; tests substitute an in-memory transport.
type Transport interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsTransport struct {
	dialer *websocket.Dialer
}

// NewWebSocketTransport returns the production WebSocket transport.
func NewWebSocketTransport() Transport {
	return &wsTransport{dialer: websocket.DefaultDialer}
}

func (t *wsTransport) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := t.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
