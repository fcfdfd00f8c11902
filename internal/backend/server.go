package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/logging"
)

const (
	// Time allowed to read the next message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	shutdownTimeout = 5 * time.Second
)

// HandlerFunc runs one named action.
type HandlerFunc func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error)

// Server serves registered actions over HTTP and WebSocket.
type Server struct {
	// Preview, when set, is served at "/".
	Preview http.Handler

	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	upgrader websocket.Upgrader
	wg       sync.WaitGroup
}

// NewServer creates a Server with no actions registered
func NewServer() *Server {
	return &Server{
		handlers: make(map[string]HandlerFunc),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Handle registers fn under name, replacing any previous handler.
func (s *Server) Handle(name string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = fn
}

// Actions returns the registered action names, sorted.
func (s *Server) Actions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler registered for req.Action. Unknown names return
// ErrUnknownAction.
func (s *Server) Dispatch(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	s.mu.RLock()
	fn, ok := s.handlers[req.Action]
	s.mu.RUnlock()
	if !ok {
		return button.ActionResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return fn(ctx, req)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/action":
		s.serveAction(w, r)
	case "/ws":
		s.serveWebSocket(w, r)
	case "/":
		if s.Preview == nil {
			http.NotFound(w, r)
			return
		}
		s.Preview.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, wireResponse{Status: "error", Error: "method not allowed"})
		return
	}

	var req button.ActionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageSize)).Decode(&req); err != nil {
		logging.LogActionRequest(r.RemoteAddr, TransportHTTP, "", err)
		writeJSON(w, http.StatusBadRequest, wireResponse{Status: "error", Error: "invalid request body"})
		return
	}
	if req.Action == "" {
		writeJSON(w, http.StatusBadRequest, wireResponse{Status: "error", Error: "missing action"})
		return
	}

	res, err := s.Dispatch(r.Context(), req)
	logging.LogActionRequest(r.RemoteAddr, TransportHTTP, req.Action, err)

	status := http.StatusOK
	switch {
	case errors.Is(err, ErrUnknownAction):
		status = http.StatusNotFound
	case err != nil:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, responseFor(0, res, err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.handleWebSocket(r.Context(), conn, r.RemoteAddr)
}

// handleWebSocket answers request frames until the peer goes away.
func (s *Server) handleWebSocket(ctx context.Context, conn *websocket.Conn, remoteAddr string) {
	logging.LogConnection(remoteAddr, "websocket_upgraded")
	defer func() {
		_ = conn.Close()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var writeMu sync.Mutex
	write := func(v wireResponse) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			case <-ctx.Done():
				// unblocks ReadJSON during shutdown
				_ = conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed or error reading frame",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var req wireRequest
		if err := json.Unmarshal(data, &req); err != nil {
			logging.Debug("Invalid request frame", zap.String("remote_addr", remoteAddr), zap.Error(err))
			if werr := write(wireResponse{Status: "error", Error: "invalid request frame"}); werr != nil {
				return
			}
			continue
		}

		res, err := s.Dispatch(ctx, button.ActionRequest{Action: req.Action})
		logging.LogActionRequest(remoteAddr, TransportWebSocket, req.Action, err)
		if werr := write(responseFor(req.ID, res, err)); werr != nil {
			return
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logging.Info("Server listening for connections",
		zap.String("addr", ln.Addr().String()),
		zap.Strings("actions", s.Actions()),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpSrv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		s.wg.Wait()
		return err
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
