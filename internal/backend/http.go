package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/logging"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

// HTTPInvoker calls backend actions with JSON POST requests.
type HTTPInvoker struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPInvoker creates an invoker for the backend at baseURL
func NewHTTPInvoker(baseURL string) *HTTPInvoker {
	return &HTTPInvoker{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *HTTPInvoker) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Invoke posts req to <BaseURL>/action and decodes the result.
func (c *HTTPInvoker) Invoke(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	var result button.ActionResult
	endpoint := c.BaseURL + "/action"

	body, err := json.Marshal(req)
	if err != nil {
		return result, fmt.Errorf("failed to encode action request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logging.Debug("Sending action request",
		zap.String("endpoint", endpoint),
		zap.String("action", req.Action),
	)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return result, classifyNetworkError(err, req.Action, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return result, classifyNetworkError(err, req.Action, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var payload wireResponse
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return result, &RequestError{
			Type:       ErrTypeHTTP,
			Action:     req.Action,
			Endpoint:   endpoint,
			Message:    msg,
			StatusCode: resp.StatusCode,
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}
	var payload wireResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return result, &RequestError{
			Type:     ErrTypeParse,
			Action:   req.Action,
			Endpoint: endpoint,
			Message:  "invalid JSON in response",
			Err:      err,
		}
	}
	if payload.Error != "" {
		return payload.result(), &RequestError{
			Type:     ErrTypeAction,
			Action:   req.Action,
			Endpoint: endpoint,
			Message:  payload.Error,
		}
	}
	return payload.result(), nil
}

// wireResponse is the JSON body shared by both transports.
type wireResponse struct {
	ID      uint64         `json:"id,omitempty"`
	Status  string         `json:"status,omitempty"`
	Message string         `json:"message,omitempty"`
	Page    string         `json:"page,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (w wireResponse) result() button.ActionResult {
	return button.ActionResult{
		Status:  w.Status,
		Message: w.Message,
		Page:    w.Page,
		Data:    w.Data,
	}
}

func responseFor(id uint64, res button.ActionResult, err error) wireResponse {
	w := wireResponse{
		ID:      id,
		Status:  res.Status,
		Message: res.Message,
		Page:    res.Page,
		Data:    res.Data,
	}
	if err != nil {
		w.Error = err.Error()
		if w.Status == "" {
			w.Status = "error"
		}
	} else if w.Status == "" {
		w.Status = "ok"
	}
	return w
}
