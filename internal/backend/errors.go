package backend

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a failed action request
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the backend refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx HTTP status
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response
	ErrTypeParse
	// ErrTypeAction indicates the backend rejected the action itself
	ErrTypeAction
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeAction:
		return "Action Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ErrUnknownAction is returned by the server for unregistered action names.
var ErrUnknownAction = errors.New("unknown action")

// RequestError represents a failed action request
type RequestError struct {
	Type       ErrorType // Category of error
	Action     string    // Action name
	Endpoint   string    // URL the request was sent to
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s: action %q: %s", e.Type, e.Action, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *RequestError) Unwrap() error {
	return e.Err
}

// classifyNetworkError wraps a transport error into a RequestError with the
// most specific type available
func classifyNetworkError(err error, action, endpoint string) *RequestError {
	if err == nil {
		return nil
	}
	reqErr := &RequestError{
		Type:     ErrTypeNetwork,
		Action:   action,
		Endpoint: endpoint,
		Message:  "network error occurred",
		Err:      err,
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	var urlErr *url.Error
	switch {
	case os.IsTimeout(err):
		reqErr.Type = ErrTypeTimeout
		reqErr.Message = "request timed out"
	case errors.As(err, &dnsErr):
		reqErr.Type = ErrTypeDNS
		reqErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED):
		reqErr.Type = ErrTypeConnectionRefused
		reqErr.Message = "backend refused connection"
	case errors.As(err, &urlErr) && urlErr.Err != err:
		inner := classifyNetworkError(urlErr.Err, action, endpoint)
		inner.Err = err
		return inner
	}
	return reqErr
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	switch reqErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// ShortMessage returns a concise, user-facing description of err
func ShortMessage(err error) string {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return err.Error()
	}
	switch reqErr.Type {
	case ErrTypeTimeout:
		return "Backend not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Backend refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve backend hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Backend error (HTTP %d)", reqErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse backend response"
	default:
		return reqErr.Message
	}
}

// TroubleshootingHints returns suggestions for resolving err
func TroubleshootingHints(err error) []string {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return nil
	}
	switch reqErr.Type {
	case ErrTypeTimeout:
		return []string{
			"Check that the backend is running and reachable",
			"Increase backend.timeout in the config file",
		}
	case ErrTypeConnectionRefused:
		return []string{
			"Start the backend with 'consolekit serve'",
			"Verify backend.url points at the right port",
		}
	case ErrTypeDNS:
		return []string{
			"Verify the hostname in backend.url",
			"Try the IP address instead, or run 'consolekit discover'",
		}
	case ErrTypeHTTP:
		if reqErr.StatusCode == 404 {
			return []string{"The backend does not know this action; check the action name in the screen file"}
		}
		return []string{"Check the backend logs for details"}
	case ErrTypeParse:
		return []string{"The endpoint may not be a consolekit backend; check backend.url"}
	default:
		return nil
	}
}
