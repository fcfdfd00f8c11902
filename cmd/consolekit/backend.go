package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/backend"
	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/discovery"
	"github.com/muurk/consolekit/internal/logging"
)

// builtinCallbacks is the registry on_click names are resolved against.
func builtinCallbacks() config.Callbacks {
	return config.Callbacks{
		"noop": func(ctx context.Context, desc button.Descriptor) error {
			return nil
		},
		"log": func(ctx context.Context, desc button.Descriptor) error {
			logging.Info("Callback invoked", zap.String("button", desc.Label))
			return nil
		},
		"wait": func(ctx context.Context, desc button.Descriptor) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		"fail": func(ctx context.Context, desc button.Descriptor) error {
			return errors.New("callback failed")
		},
	}
}

// endpoint is a resolved backend address.
type endpoint struct {
	URL       string
	Transport string
	Source    string // flag, discovery or settings
}

// resolveBackend picks the backend: the --backend flag, then an mDNS
// discovered backend when discovery is enabled, then the settings file.
func resolveBackend(ctx context.Context, s *config.Settings) endpoint {
	if backendFlag != "" {
		return endpoint{URL: backendFlag, Transport: s.Backend.Transport, Source: "flag"}
	}

	if s.Discover.Enabled {
		scanner := discovery.NewScanner()
		scanner.Timeout = s.Discover.Timeout
		found, err := scanner.First(ctx)
		if err == nil {
			logging.Info("Using discovered backend", zap.String("backend", found.String()))
			return endpoint{URL: found.URL(), Transport: found.Transport, Source: "discovery"}
		}
		logging.Warn("Backend discovery failed, falling back to settings", zap.Error(err))
	}

	return endpoint{URL: s.Backend.URL, Transport: s.Backend.Transport, Source: "settings"}
}

// newInvoker connects to the resolved backend. The returned func releases
// the connection and is never nil.
func newInvoker(ep endpoint, timeout time.Duration) (button.ActionInvoker, func(), error) {
	inv, err := backend.NewInvoker(ep.Transport, ep.URL, timeout)
	if err != nil {
		return nil, func() {}, fmt.Errorf("backend %s: %w", ep.URL, err)
	}
	release := func() {
		if c, ok := inv.(backend.Closer); ok {
			if err := c.Close(); err != nil {
				logging.Debug("Closing backend connection failed", zap.Error(err))
			}
		}
	}
	return inv, release, nil
}

// recordingInvoker remembers the last outcome, since buttons log backend
// failures instead of returning them.
type recordingInvoker struct {
	next   button.ActionInvoker
	result button.ActionResult
	err    error
	called bool
}

func (r *recordingInvoker) Invoke(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	r.result, r.err = r.next.Invoke(ctx, req)
	r.called = true
	return r.result, r.err
}

// dryRunInvoker answers every action without contacting a backend.
var dryRunInvoker = button.InvokerFunc(func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	return button.ActionResult{Status: "ok", Message: "dry run: " + req.Action + " not sent"}, nil
})
