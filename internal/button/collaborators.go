package button

import "context"

// Navigator transitions the console to another page. A failed transition
// returns an error.
type Navigator interface {
	TransitionTo(ctx context.Context, route, page string) error
}

// ActionRequest is the call made to the backend for a BackendActionMode
// button.
type ActionRequest struct {
	Action string `json:"action"`
}

// ActionResult is the backend's answer. Buttons ignore it; invokers may
// surface it to the rest of the UI.
type ActionResult struct {
	Status  string         `json:"status,omitempty"`
	Message string         `json:"message,omitempty"`
	Page    string         `json:"page,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ActionInvoker calls a named backend action.
type ActionInvoker interface {
	Invoke(ctx context.Context, req ActionRequest) (ActionResult, error)
}

// LinkOpener performs the navigation of a LinkMode button.
type LinkOpener interface {
	Open(ctx context.Context, href, target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route, page string) error

// TransitionTo calls f.
func (f NavigatorFunc) TransitionTo(ctx context.Context, route, page string) error {
	return f(ctx, route, page)
}

// InvokerFunc adapts a function to ActionInvoker.
type InvokerFunc func(ctx context.Context, req ActionRequest) (ActionResult, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, req ActionRequest) (ActionResult, error) {
	return f(ctx, req)
}

// OpenerFunc adapts a function to LinkOpener.
type OpenerFunc func(ctx context.Context, href, target string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, href, target string) error {
	return f(ctx, href, target)
}
