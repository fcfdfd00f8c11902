package router

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/pkg/browser"

	"github.com/muurk/consolekit/internal/button"
)

var _ button.Navigator = (*Router)(nil)
var _ button.LinkOpener = (*Recorder)(nil)
var _ button.LinkOpener = BrowserOpener{}

func TestRouter_TransitionTo(t *testing.T) {
	r := New("console")
	r.Register("home", "certs", "audit")

	var changes []string
	r.OnChange(func(page string) { changes = append(changes, page) })

	if r.Current() != "home" {
		t.Fatalf("Current() = %q, want home", r.Current())
	}

	tests := []struct {
		name    string
		route   string
		page    string
		wantErr error
		want    string
	}{
		{name: "known page", route: "console", page: "certs", want: "certs"},
		{name: "same page is a no-op", route: "console", page: "certs", want: "certs"},
		{name: "unknown page", route: "console", page: "nowhere", wantErr: ErrUnknownPage, want: "certs"},
		{name: "unknown route", route: "openxpki", page: "audit", wantErr: ErrUnknownRoute, want: "certs"},
		{name: "second page", route: "console", page: "audit", want: "audit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.TransitionTo(context.Background(), tt.route, tt.page)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			if got := r.Current(); got != tt.want {
				t.Errorf("Current() = %q, want %q", got, tt.want)
			}
		})
	}

	if len(changes) != 2 || changes[0] != "certs" || changes[1] != "audit" {
		t.Errorf("changes = %v, want [certs audit]", changes)
	}
	if r.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", r.Depth())
	}
}

func TestRouter_Back(t *testing.T) {
	r := New("console")
	r.Register("home", "certs")

	if r.Back() {
		t.Error("Back() at the first page should report false")
	}
	_ = r.TransitionTo(context.Background(), "console", "certs")
	if !r.Back() {
		t.Fatal("Back() should report true")
	}
	if r.Current() != "home" {
		t.Errorf("Current() = %q, want home", r.Current())
	}
}

func TestRouter_CancelledContext(t *testing.T) {
	r := New("console")
	r.Register("home", "certs")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.TransitionTo(ctx, "console", "certs"); !errors.Is(err, context.Canceled) {
		t.Errorf("TransitionTo() error = %v, want context.Canceled", err)
	}
	if r.Current() != "home" {
		t.Errorf("Current() = %q, want home", r.Current())
	}
}

func TestRouter_WithButton(t *testing.T) {
	r := New(button.DefaultRoute)
	r.Register("home")

	b, err := button.New(button.Descriptor{Label: "Gone", Mode: button.PageMode{Page: "gone"}}, button.WithNavigator(r))
	if err != nil {
		t.Fatalf("button.New() error = %v", err)
	}
	if err := b.Click(context.Background()); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("Click() error = %v, want ErrUnknownPage", err)
	}
	if !b.State().Loading {
		t.Error("button should stay loading after the router rejects the page")
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	if err := rec.Open(context.Background(), "", ""); !errors.Is(err, ErrEmptyHref) {
		t.Errorf("Open(\"\") error = %v, want ErrEmptyHref", err)
	}
	if err := rec.Open(context.Background(), "https://www.openxpki.org", "_blank"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	links := rec.Links()
	if len(links) != 1 || links[0] != (Link{Href: "https://www.openxpki.org", Target: "_blank"}) {
		t.Errorf("Links() = %v", links)
	}
}

func TestBrowserOpener_RejectsEmptyHref(t *testing.T) {
	if err := (BrowserOpener{}).Open(context.Background(), "  ", ""); !errors.Is(err, ErrEmptyHref) {
		t.Errorf("Open() error = %v, want ErrEmptyHref", err)
	}
}

func TestWithBrowserOutput(t *testing.T) {
	prev := browser.Stdout

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			errs <- withBrowserOutput(&buf, func() error {
				if browser.Stdout != io.Writer(&buf) || browser.Stderr != io.Writer(&buf) {
					return errors.New("output writer replaced during call")
				}
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}

	if browser.Stdout != prev {
		t.Error("withBrowserOutput() did not restore browser.Stdout")
	}
	_ = withBrowserOutput(nil, func() error {
		if browser.Stdout != io.Discard {
			t.Error("nil output should discard")
		}
		return nil
	})
}
