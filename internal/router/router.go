package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/logging"
)

var (
	// ErrUnknownRoute is returned for a route other than the router's own.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrUnknownPage is returned for a page that was never registered.
	ErrUnknownPage = errors.New("unknown page")
)

// Router is an in-memory page history. It is safe for concurrent use.
type Router struct {
	route string

	mu       sync.RWMutex
	pages    map[string]bool
	history  []string
	onChange []func(page string)
}

// New creates a router answering to route.
func New(route string) *Router {
	return &Router{
		route: route,
		pages: make(map[string]bool),
	}
}

// Register makes pages reachable. The first page ever registered becomes
// the current page.
func (r *Router) Register(pages ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pages {
		r.pages[p] = true
		if len(r.history) == 0 {
			r.history = append(r.history, p)
		}
	}
}

// OnChange subscribes fn to page changes.
func (r *Router) OnChange(fn func(page string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Route returns the route identifier this router answers to.
func (r *Router) Route() string {
	return r.route
}

// Current returns the current page, or "" before any page is registered.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// Depth returns the number of pages in the history.
func (r *Router) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

// TransitionTo implements button.Navigator.
func (r *Router) TransitionTo(ctx context.Context, route, page string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if route != r.route {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, route)
	}

	r.mu.Lock()
	if !r.pages[page] {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if len(r.history) > 0 && r.history[len(r.history)-1] == page {
		r.mu.Unlock()
		return nil
	}
	r.history = append(r.history, page)
	listeners := append([]func(string){}, r.onChange...)
	r.mu.Unlock()

	logging.Debug("Page transition", zap.String("route", route), zap.String("page", page))
	for _, fn := range listeners {
		fn(page)
	}
	return nil
}

// Back returns to the previous page. It reports false when already at the
// first page.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return false
	}
	r.history = r.history[:len(r.history)-1]
	page := r.history[len(r.history)-1]
	listeners := append([]func(string){}, r.onChange...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(page)
	}
	return true
}
