package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/logging"
)

// ErrEmptyHref is returned when asked to open an empty link.
var ErrEmptyHref = errors.New("empty href")

// BrowserOpener opens links in the user's web browser.
type BrowserOpener struct {
	// Output receives the browser launcher's stdout/stderr. Nil discards it
	// so a terminal UI is not corrupted.
	Output io.Writer
}

// Open implements button.LinkOpener. The target is ignored: a terminal
// cannot address browser windows.
func (o BrowserOpener) Open(ctx context.Context, href, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkHref(href); err != nil {
		return err
	}

	logging.Info("Opening link", zap.String("href", href), zap.String("target", target))
	err := withBrowserOutput(o.Output, func() error {
		return browser.OpenURL(href)
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", href, err)
	}
	return nil
}

// browserMu guards the browser package's output globals.
var browserMu sync.Mutex

// withBrowserOutput runs fn with the browser launcher's output sent to out
// (io.Discard when nil) and restores the previous writers afterwards.
func withBrowserOutput(out io.Writer, fn func() error) error {
	if out == nil {
		out = io.Discard
	}

	browserMu.Lock()
	defer browserMu.Unlock()

	prevOut, prevErr := browser.Stdout, browser.Stderr
	browser.Stdout, browser.Stderr = out, out
	defer func() { browser.Stdout, browser.Stderr = prevOut, prevErr }()
	return fn()
}

// Link is a link recorded by a Recorder.
type Link struct {
	Href   string
	Target string
}

// Recorder is a LinkOpener that only remembers what it was asked to open.
// It backs dry runs and tests.
type Recorder struct {
	mu    sync.Mutex
	links []Link
}

// Open implements button.LinkOpener.
func (r *Recorder) Open(ctx context.Context, href, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkHref(href); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, Link{Href: href, Target: target})
	return nil
}

// Links returns the links opened so far.
func (r *Recorder) Links() []Link {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Link(nil), r.links...)
}

func checkHref(href string) error {
	if strings.TrimSpace(href) == "" {
		return ErrEmptyHref
	}
	if _, err := url.Parse(href); err != nil {
		return fmt.Errorf("invalid href %q: %w", href, err)
	}
	return nil
}
