package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// wireRequest is a client frame on the WebSocket transport.
type wireRequest struct {
	ID     uint64 `json:"id"`
	Action string `json:"action"`
}

// WSInvoker calls backend actions over a WebSocket connection. The
// connection is dialled on first use and re-dialled after a failure. Calls
// are serialized: one request frame is answered before the next is sent.
type WSInvoker struct {
	URL     string
	Timeout time.Duration
	Dialer  *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

// NewWSInvoker creates an invoker for the backend at baseURL. http and https
// URLs are mapped to ws and wss with the /ws path appended.
func NewWSInvoker(baseURL string) *WSInvoker {
	return &WSInvoker{
		URL:     wsURL(baseURL),
		Timeout: DefaultTimeout,
		Dialer:  websocket.DefaultDialer,
	}
}

func wsURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	} else if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	}
	return u.String()
}

// Invoke sends req and waits for the matching response frame.
func (c *WSInvoker) Invoke(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result button.ActionResult
	conn, err := c.connect(ctx, req.Action)
	if err != nil {
		return result, err
	}

	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// unblock reads if ctx ends first
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	c.nextID++
	id := c.nextID
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wireRequest{ID: id, Action: req.Action}); err != nil {
		c.dropLocked()
		return result, classifyNetworkError(err, req.Action, c.URL)
	}

	for {
		_ = conn.SetReadDeadline(deadline)
		var resp wireResponse
		if err := conn.ReadJSON(&resp); err != nil {
			c.dropLocked()
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			return result, classifyNetworkError(err, req.Action, c.URL)
		}
		if resp.ID != id {
			logging.Debug("Discarding stale action response",
				zap.Uint64("want", id),
				zap.Uint64("got", resp.ID),
			)
			continue
		}
		if resp.Error != "" {
			return resp.result(), &RequestError{
				Type:     ErrTypeAction,
				Action:   req.Action,
				Endpoint: c.URL,
				Message:  resp.Error,
			}
		}
		return resp.result(), nil
	}
}

func (c *WSInvoker) connect(ctx context.Context, action string) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	conn, resp, err := c.Dialer.DialContext(dialCtx, c.URL, nil)
	if err != nil {
		if resp != nil {
			return nil, &RequestError{
				Type:       ErrTypeHTTP,
				Action:     action,
				Endpoint:   c.URL,
				Message:    fmt.Sprintf("websocket handshake failed: %s", resp.Status),
				StatusCode: resp.StatusCode,
				Err:        err,
			}
		}
		return nil, classifyNetworkError(err, action, c.URL)
	}
	conn.SetReadLimit(maxMessageSize)
	logging.LogConnection(c.URL, "websocket_connected")
	c.conn = conn
	return conn, nil
}

func (c *WSInvoker) dropLocked() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	logging.LogConnection(c.URL, "websocket_dropped")
}

// Close sends a close frame and releases the connection.
func (c *WSInvoker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	err := c.conn.Close()
	c.conn = nil
	return err
}
