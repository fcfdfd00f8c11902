package button

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/consolekit/internal/logging"
)

// recorder is a fake for all three collaborators.
type recorder struct {
	mu       sync.Mutex
	opened   []string
	targets  []string
	requests []ActionRequest
	routes   []string
	pages    []string

	openErr   error
	invokeErr error
	navErr    error
}

func (r *recorder) Open(_ context.Context, href, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, href)
	r.targets = append(r.targets, target)
	return r.openErr
}

func (r *recorder) Invoke(_ context.Context, req ActionRequest) (ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return ActionResult{Status: "ok"}, r.invokeErr
}

func (r *recorder) TransitionTo(_ context.Context, route, page string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.pages = append(r.pages, page)
	return r.navErr
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.opened) + len(r.requests) + len(r.pages)
}

// stateLog collects listener notifications.
type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) listen(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s)
}

func (l *stateLog) everConfirmOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.states {
		if s.ConfirmOpen {
			return true
		}
	}
	return false
}

func newButton(t *testing.T, desc Descriptor, rec *recorder, log *stateLog, opts ...Option) *Button {
	t.Helper()
	all := []Option{WithNavigator(rec), WithInvoker(rec), WithLinkOpener(rec)}
	if log != nil {
		all = append(all, WithStateListener(log.listen))
	}
	b, err := New(desc, append(all, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

var confirmGate = &Confirm{Label: "Really sure?", Description: "Think!"}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		desc    Descriptor
		opts    []Option
		wantErr error
		field   string
	}{
		{
			name:  "empty label",
			desc:  Descriptor{Mode: PageMode{Page: "home"}},
			opts:  []Option{WithNavigator(&recorder{})},
			field: "label",
		},
		{
			name:  "confirm without label",
			desc:  Descriptor{Label: "x", Confirm: &Confirm{Description: "d"}, Mode: PageMode{Page: "home"}},
			opts:  []Option{WithNavigator(&recorder{})},
			field: "confirm.label",
		},
		{
			name:  "confirm without description",
			desc:  Descriptor{Label: "x", Confirm: &Confirm{Label: "l"}, Mode: PageMode{Page: "home"}},
			opts:  []Option{WithNavigator(&recorder{})},
			field: "confirm.description",
		},
		{
			name:    "no mode",
			desc:    Descriptor{Label: "x"},
			wantErr: ErrNoDispatchTarget,
		},
		{
			name:  "empty href",
			desc:  Descriptor{Label: "x", Mode: LinkMode{Href: " "}},
			opts:  []Option{WithLinkOpener(&recorder{})},
			field: "href",
		},
		{
			name:  "nil callback",
			desc:  Descriptor{Label: "x", Mode: CallbackMode{}},
			field: "onClick",
		},
		{
			name:  "empty action",
			desc:  Descriptor{Label: "x", Mode: BackendActionMode{}},
			opts:  []Option{WithInvoker(&recorder{})},
			field: "action",
		},
		{
			name:  "empty page",
			desc:  Descriptor{Label: "x", Mode: PageMode{}},
			opts:  []Option{WithNavigator(&recorder{})},
			field: "page",
		},
		{
			name:    "page without navigator",
			desc:    Descriptor{Label: "x", Mode: PageMode{Page: "home"}},
			wantErr: ErrMissingCollaborator,
		},
		{
			name:    "action without invoker",
			desc:    Descriptor{Label: "x", Mode: BackendActionMode{Name: "a"}},
			wantErr: ErrMissingCollaborator,
		},
		{
			name:    "link without opener",
			desc:    Descriptor{Label: "x", Mode: LinkMode{Href: "https://example.org"}},
			wantErr: ErrMissingCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.desc, tt.opts...)
			if err == nil {
				t.Fatalf("New() = %v, want error", b)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New() error = %T, want *ConfigError", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.field != "" && cfgErr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestNew_CallbackNeedsNoCollaborator(t *testing.T) {
	_, err := New(Descriptor{Label: "x", Mode: CallbackMode{Fn: func(context.Context, Descriptor) error { return nil }}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestLinkMode_NoConfirm(t *testing.T) {
	rec := &recorder{}
	log := &stateLog{}
	b := newButton(t, Descriptor{
		Label: "Docs",
		Mode:  LinkMode{Href: "https://www.openxpki.org", Target: "_blank"},
	}, rec, log)

	if err := b.Click(context.Background()); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	if len(rec.opened) != 1 || rec.opened[0] != "https://www.openxpki.org" {
		t.Errorf("opened = %v, want exactly one open of the href", rec.opened)
	}
	if rec.targets[0] != "_blank" {
		t.Errorf("target = %q, want _blank", rec.targets[0])
	}
	if log.everConfirmOpen() {
		t.Error("confirm dialog should never open without a confirm gate")
	}
	if s := b.State(); s.Loading || s.Phase != PhaseIdle {
		t.Errorf("State() = %+v, want idle and not loading", s)
	}
}

func TestLinkMode_Confirmed(t *testing.T) {
	rec := &recorder{}
	b := newButton(t, Descriptor{
		Label:   "Docs",
		Confirm: confirmGate,
		Mode:    LinkMode{Href: "https://www.openxpki.org"},
	}, rec, nil)

	if err := b.Click(context.Background()); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	s := b.State()
	if !s.Loading || !s.ConfirmOpen || s.Phase != PhaseConfirmPending {
		t.Fatalf("State() after click = %+v, want loading, dialog open", s)
	}
	if len(rec.opened) != 0 {
		t.Fatalf("link opened before confirmation: %v", rec.opened)
	}

	if err := b.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if len(rec.opened) != 1 {
		t.Errorf("opened %d times, want exactly once", len(rec.opened))
	}
	if s := b.State(); s.ConfirmOpen || s.Loading {
		t.Errorf("State() after confirm = %+v, want dialog closed, not loading", s)
	}
}

func TestLinkMode_Cancelled(t *testing.T) {
	rec := &recorder{}
	b := newButton(t, Descriptor{
		Label:   "Docs",
		Confirm: confirmGate,
		Mode:    LinkMode{Href: "https://www.openxpki.org"},
	}, rec, nil)

	_ = b.Click(context.Background())
	b.Cancel()

	if s := b.State(); s.ConfirmOpen || s.Loading || s.Phase != PhaseIdle {
		t.Errorf("State() after cancel = %+v, want idle", s)
	}
	if rec.calls() != 0 {
		t.Errorf("collaborator calls = %d, want 0", rec.calls())
	}
	if err := b.Confirm(context.Background()); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Errorf("Confirm() after cancel error = %v, want ErrNoPendingConfirmation", err)
	}
	if len(rec.opened) != 0 {
		t.Errorf("opened = %v, want none", rec.opened)
	}
}

func TestLinkMode_OpenerError(t *testing.T) {
	rec := &recorder{openErr: errors.New("no browser")}
	b := newButton(t, Descriptor{Label: "Docs", Mode: LinkMode{Href: "https://x"}}, rec, nil)

	if err := b.Click(context.Background()); !errors.Is(err, rec.openErr) {
		t.Errorf("Click() error = %v, want %v", err, rec.openErr)
	}
	if b.State().Loading {
		t.Error("link buttons never enter the loading state")
	}
}

func TestCallbackMode(t *testing.T) {
	for _, fail := range []bool{false, true} {
		name := "success"
		if fail {
			name = "failure"
		}
		t.Run(name, func(t *testing.T) {
			var b *Button
			var calls int
			var got Descriptor
			var loadingDuring bool

			desc := Descriptor{Label: "Run", Format: FormatExpected}
			desc.Mode = CallbackMode{Fn: func(_ context.Context, d Descriptor) error {
				calls++
				got = d
				loadingDuring = b.State().Loading
				if fail {
					return errors.New("callback failed")
				}
				return nil
			}}
			b = newButton(t, desc, &recorder{}, nil)

			if err := b.Click(context.Background()); err != nil {
				t.Fatalf("Click() error = %v, want callback failures to be swallowed", err)
			}
			if calls != 1 {
				t.Errorf("callback calls = %d, want 1", calls)
			}
			if got.Label != "Run" || got.Format != FormatExpected {
				t.Errorf("callback got descriptor %+v, want the button's descriptor", got)
			}
			if !loadingDuring {
				t.Error("loading should be set while the callback runs")
			}
			if s := b.State(); s.Loading || s.Phase != PhaseIdle {
				t.Errorf("State() after settle = %+v, want idle, not loading", s)
			}
		})
	}
}

func TestBackendActionMode(t *testing.T) {
	for _, invokeErr := range []error{nil, errors.New("backend down")} {
		rec := &recorder{invokeErr: invokeErr}
		log := &stateLog{}
		b := newButton(t, Descriptor{Label: "Revoke", Mode: BackendActionMode{Name: "revoke_cert"}}, rec, log)

		if err := b.Click(context.Background()); err != nil {
			t.Fatalf("Click() error = %v", err)
		}
		if len(rec.requests) != 1 || rec.requests[0] != (ActionRequest{Action: "revoke_cert"}) {
			t.Errorf("requests = %v, want one revoke_cert request", rec.requests)
		}
		if b.State().Loading {
			t.Errorf("loading not cleared (invoke error %v)", invokeErr)
		}
		if len(log.states) < 2 || !log.states[len(log.states)-2].Loading {
			t.Errorf("states = %+v, want loading before settle", log.states)
		}
	}
}

func TestPageMode(t *testing.T) {
	rec := &recorder{}
	b := newButton(t, Descriptor{Label: "Home", Mode: PageMode{Page: "home"}}, rec, nil, WithRoute("openxpki"))

	if err := b.Click(context.Background()); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if len(rec.pages) != 1 || rec.pages[0] != "home" || rec.routes[0] != "openxpki" {
		t.Errorf("transitions = %v/%v, want openxpki/home", rec.routes, rec.pages)
	}
	if b.State().Loading {
		t.Error("loading should clear after a successful transition")
	}
}

func TestPageMode_RejectedStaysLoading(t *testing.T) {
	rec := &recorder{navErr: errors.New("unknown page")}
	b := newButton(t, Descriptor{Label: "Home", Mode: PageMode{Page: "nowhere"}}, rec, nil)

	err := b.Click(context.Background())
	if !errors.Is(err, rec.navErr) {
		t.Fatalf("Click() error = %v, want navigator error", err)
	}
	if !b.State().Loading {
		t.Error("loading should stay set after a failed transition")
	}
	if b.Interactive() {
		t.Error("a loading button is not interactive")
	}
	if rec.routes[0] != DefaultRoute {
		t.Errorf("route = %q, want %q", rec.routes[0], DefaultRoute)
	}
}

func TestConfirmThenDispatch(t *testing.T) {
	rec := &recorder{}
	b := newButton(t, Descriptor{
		Label:   "Revoke",
		Confirm: confirmGate,
		Mode:    BackendActionMode{Name: "revoke"},
	}, rec, nil)

	_ = b.Click(context.Background())
	if len(rec.requests) != 0 {
		t.Fatal("action invoked before confirmation")
	}
	// a second click while the dialog is open keeps it open
	_ = b.Click(context.Background())
	if s := b.State(); !s.ConfirmOpen || !s.Loading {
		t.Fatalf("State() = %+v, want dialog open", s)
	}

	if err := b.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if len(rec.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(rec.requests))
	}
	if s := b.State(); s.ConfirmOpen || s.Loading {
		t.Errorf("State() = %+v, want settled", s)
	}
}

func TestExecuteAction_NoModePanics(t *testing.T) {
	rec := &recorder{}
	b := &Button{
		desc:      Descriptor{Label: "Broken"},
		navigator: rec,
		invoker:   rec,
		opener:    rec,
		route:     DefaultRoute,
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("ExecuteAction() did not panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoDispatchTarget) {
			t.Errorf("panic value = %v, want ErrNoDispatchTarget", r)
		}
		if rec.calls() != 0 {
			t.Errorf("collaborator calls = %d, want 0", rec.calls())
		}
	}()
	_ = b.Click(context.Background())
}

func TestClick_NoReentryGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var mu sync.Mutex
	calls := 0

	b := newButton(t, Descriptor{Label: "Slow", Mode: CallbackMode{Fn: func(context.Context, Descriptor) error {
		mu.Lock()
		calls++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil
	}}}, &recorder{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Click(context.Background())
	}()
	<-started
	if !b.State().Loading {
		t.Fatal("first dispatch should be loading")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Click(context.Background())
	}()
	<-started
	close(release)
	wg.Wait()

	if calls != 2 {
		t.Errorf("callback calls = %d, want 2 (no re-entry guard)", calls)
	}
}

func TestStyleClass(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	rec := &recorder{}
	tests := []struct {
		format Format
		want   string
	}{
		{FormatNone, NeutralClass},
		{FormatPrimary, "btn-primary"},
		{FormatTerminate, "oxi-btn-terminate"},
		{Format("shiny"), ""},
	}
	for _, tt := range tests {
		b := newButton(t, Descriptor{Label: "B", Format: tt.format, Mode: PageMode{Page: "p"}}, rec, nil)
		if got := b.StyleClass(); got != tt.want {
			t.Errorf("StyleClass(%q) = %q, want %q", tt.format, got, tt.want)
		}
		_ = b.StyleClass()
	}

	if got := logs.FilterMessage("Button has unknown format").Len(); got != 1 {
		t.Errorf("unknown format warnings = %d, want 1 per button", got)
	}

	loading := newButton(t, Descriptor{Label: "L", Format: FormatPrimary, Confirm: confirmGate, Mode: PageMode{Page: "p"}}, rec, nil)
	_ = loading.Click(context.Background())
	if got := loading.StyleClass(); got != LoadingClass {
		t.Errorf("StyleClass() while loading = %q, want %q", got, LoadingClass)
	}
}

func TestInteractive(t *testing.T) {
	rec := &recorder{}
	enabled := newButton(t, Descriptor{Label: "A", Mode: PageMode{Page: "p"}}, rec, nil)
	disabled := newButton(t, Descriptor{Label: "B", Disabled: true, Mode: PageMode{Page: "p"}}, rec, nil)

	if !enabled.Interactive() {
		t.Error("enabled idle button should be interactive")
	}
	if disabled.Interactive() {
		t.Error("disabled button should not be interactive")
	}
}

func TestDescriptorUntouched(t *testing.T) {
	desc := Descriptor{Label: "Revoke", Format: FormatFailure, Confirm: confirmGate, Mode: BackendActionMode{Name: "revoke"}}
	b := newButton(t, desc, &recorder{}, nil)

	_ = b.Click(context.Background())
	_ = b.Confirm(context.Background())

	got := b.Descriptor()
	if got.Label != desc.Label || got.Format != desc.Format || got.Mode != desc.Mode || got.Confirm != desc.Confirm {
		t.Errorf("Descriptor() = %+v, want %+v", got, desc)
	}
	if *confirmGate != (Confirm{Label: "Really sure?", Description: "Think!"}) {
		t.Errorf("confirm gate modified: %+v", *confirmGate)
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:           "idle",
		PhaseConfirmPending: "confirm_pending",
		PhaseDispatching:    "dispatching",
		Phase(9):            "Phase(9)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
