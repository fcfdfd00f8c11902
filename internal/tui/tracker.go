package tui

import (
	"context"
	"sync"

	"github.com/muurk/consolekit/internal/button"
)

// outcome is the last backend answer for one action.
type outcome struct {
	result button.ActionResult
	err    error
}

// tracker wraps an ActionInvoker and keeps the last outcome per action so
// the console can report what buttons themselves swallow.
type tracker struct {
	next button.ActionInvoker

	mu       sync.Mutex
	outcomes map[string]outcome
}

func newTracker(next button.ActionInvoker) *tracker {
	return &tracker{next: next, outcomes: make(map[string]outcome)}
}

// Invoke implements button.ActionInvoker.
func (t *tracker) Invoke(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	res, err := t.next.Invoke(ctx, req)
	t.mu.Lock()
	t.outcomes[req.Action] = outcome{result: res, err: err}
	t.mu.Unlock()
	return res, err
}

// take returns and forgets the outcome recorded for action.
func (t *tracker) take(action string) (outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.outcomes[action]
	delete(t.outcomes, action)
	return o, ok
}
