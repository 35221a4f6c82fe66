package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline = 10 * time.Second
	readDeadline  = 3 * time.Minute
)

// Conn serializes writes to one upgraded connection. The stream handler
// pushes ticks from its own goroutine while the read loop writes action
// responses; gorilla/websocket supports at most one writer at a time, so
// every outbound frame goes through the mutex.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewConn wraps an upgraded gorilla connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed response payload.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func (c *Conn) WriteError(errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WriteClose sends a close control frame with the given code and reason.
func (c *Conn) WriteClose(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second),
	)
}

// ReadRaw reads one message and peeks the action envelope, returning the raw
// bytes for full decoding by the action handler. Reads take no lock: only
// the read loop calls this. The read deadline doubles as an idle timeout for
// abandoned sessions.
func (c *Conn) ReadRaw(envelope *RequestEnvelope) ([]byte, error) {
	c.ws.SetReadDeadline(time.Now().Add(readDeadline))
	_, raw, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, err
	}
	return raw, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
