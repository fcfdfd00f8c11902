package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/consolekit/internal/button"
)

// Transport names accepted by NewInvoker.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// DefaultTimeout bounds a single action exchange.
const DefaultTimeout = 10 * time.Second

// Closer is implemented by invokers that hold a connection.
type Closer interface {
	Close() error
}

// NewInvoker returns the ActionInvoker for transport. An empty transport
// selects HTTP.
func NewInvoker(transport, baseURL string, timeout time.Duration) (button.ActionInvoker, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend url is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch strings.ToLower(transport) {
	case "", TransportHTTP:
		inv := NewHTTPInvoker(baseURL)
		inv.SetTimeout(timeout)
		return inv, nil
	case TransportWebSocket, "ws":
		inv := NewWSInvoker(baseURL)
		inv.Timeout = timeout
		return inv, nil
	default:
		return nil, fmt.Errorf("unsupported backend transport %q", transport)
	}
}
