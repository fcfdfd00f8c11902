package backend

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

// timeoutError mimics a net.Error that timed out
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:8088/action",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}},
	}

	reqErr := classifyNetworkError(err, "restart", "http://127.0.0.1:8088/action")
	if reqErr.Type != ErrTypeTimeout {
		t.Errorf("Type = %v, want %v", reqErr.Type, ErrTypeTimeout)
	}
	if !errors.Is(reqErr, err) {
		t.Error("RequestError should wrap the original error")
	}
}

func TestClassifyNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:8088/action",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
	}

	reqErr := classifyNetworkError(err, "restart", "")
	if reqErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want %v", reqErr.Type, ErrTypeConnectionRefused)
	}
	if !IsNetworkError(reqErr) {
		t.Error("IsNetworkError() = false, want true")
	}
}

func TestClassifyNetworkError_DNS(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "console.invalid"}

	reqErr := classifyNetworkError(err, "restart", "")
	if reqErr.Type != ErrTypeDNS {
		t.Errorf("Type = %v, want %v", reqErr.Type, ErrTypeDNS)
	}
	if !strings.Contains(reqErr.Message, "console.invalid") {
		t.Errorf("Message = %q, want host name", reqErr.Message)
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if classifyNetworkError(nil, "x", "") != nil {
		t.Error("expected nil for nil error")
	}
}

func TestRequestError_Error(t *testing.T) {
	err := &RequestError{Type: ErrTypeHTTP, Action: "restart", Message: "boom", StatusCode: 500}
	got := err.Error()
	if !strings.Contains(got, "HTTP Error") || !strings.Contains(got, `"restart"`) {
		t.Errorf("Error() = %q", got)
	}
	if IsNetworkError(err) {
		t.Error("HTTP errors are not network errors")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &RequestError{Type: ErrTypeTimeout}, "Backend not responding (timeout)"},
		{"refused", &RequestError{Type: ErrTypeConnectionRefused}, "Backend refused connection - is it running?"},
		{"http", &RequestError{Type: ErrTypeHTTP, StatusCode: 503}, "Backend error (HTTP 503)"},
		{"action", &RequestError{Type: ErrTypeAction, Message: "disk full"}, "disk full"},
		{"plain", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.err); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorType_String(t *testing.T) {
	if ErrTypeParse.String() != "Parse Error" {
		t.Errorf("String() = %q", ErrTypeParse.String())
	}
	if ErrorType(99).String() != "ErrorType(99)" {
		t.Errorf("String() = %q", ErrorType(99).String())
	}
}

func TestTroubleshootingHints(t *testing.T) {
	if hints := TroubleshootingHints(&RequestError{Type: ErrTypeConnectionRefused}); len(hints) != 2 {
		t.Errorf("hints = %v, want 2 entries", hints)
	}
	hints := TroubleshootingHints(&RequestError{Type: ErrTypeHTTP, StatusCode: 404})
	if len(hints) != 1 || !strings.Contains(hints[0], "action name") {
		t.Errorf("hints = %v", hints)
	}
	if hints := TroubleshootingHints(errors.New("plain")); hints != nil {
		t.Errorf("hints = %v, want nil", hints)
	}
}
