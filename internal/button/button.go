package button

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/logging"
)

// DefaultRoute is the route identifier passed to the Navigator.
const DefaultRoute = "console"

// Phase is the position of a button in its interaction cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfirmPending
	PhaseDispatching
)

// String returns the phase name used in logs
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfirmPending:
		return "confirm_pending"
	case PhaseDispatching:
		return "dispatching"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the presentation state owned by a Button.
type State struct {
	Phase       Phase
	Loading     bool
	ConfirmOpen bool
}

// StateListener is notified after every state change. It runs on the
// goroutine that caused the change, outside the button's lock.
type StateListener func(State)

// Option configures a Button.
type Option func(*Button)

// WithNavigator sets the Navigator used by PageMode buttons.
func WithNavigator(n Navigator) Option {
	return func(b *Button) { b.navigator = n }
}

// WithInvoker sets the ActionInvoker used by BackendActionMode buttons.
func WithInvoker(i ActionInvoker) Option {
	return func(b *Button) { b.invoker = i }
}

// WithLinkOpener sets the LinkOpener used by LinkMode buttons.
func WithLinkOpener(o LinkOpener) Option {
	return func(b *Button) { b.opener = o }
}

// WithRoute overrides DefaultRoute.
func WithRoute(route string) Option {
	return func(b *Button) { b.route = route }
}

// WithStateListener subscribes l to state changes.
func WithStateListener(l StateListener) Option {
	return func(b *Button) { b.listeners = append(b.listeners, l) }
}

// Button is the interaction state machine of one action button.
type Button struct {
	desc      Descriptor
	navigator Navigator
	invoker   ActionInvoker
	opener    LinkOpener
	route     string
	listeners []StateListener

	mu    sync.Mutex
	state State

	formatWarned sync.Once
}

// New validates desc and returns a Button for it. It fails fast with a
// *ConfigError when the descriptor is invalid or the collaborator its mode
// needs was not supplied.
func New(desc Descriptor, opts ...Option) (*Button, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	b := &Button{desc: desc, route: DefaultRoute}
	for _, opt := range opts {
		opt(b)
	}

	var missing string
	switch desc.Mode.(type) {
	case LinkMode:
		if b.opener == nil {
			missing = "link opener"
		}
	case BackendActionMode:
		if b.invoker == nil {
			missing = "action invoker"
		}
	case PageMode:
		if b.navigator == nil {
			missing = "navigator"
		}
	}
	if missing != "" {
		return nil, &ConfigError{Label: desc.Label, Field: missing, Err: ErrMissingCollaborator}
	}

	if !desc.Format.Known() {
		b.warnFormat()
	}
	return b, nil
}

// Descriptor returns the descriptor the button was created with.
func (b *Button) Descriptor() Descriptor {
	return b.desc
}

// State returns a snapshot of the presentation state.
func (b *Button) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Interactive reports whether renderers should accept input for the button.
func (b *Button) Interactive() bool {
	return !b.desc.Disabled && !b.State().Loading
}

// StyleClass returns the CSS class for the current state. Loading takes
// precedence over the format; unknown formats yield "".
func (b *Button) StyleClass() string {
	loading := b.State().Loading
	if !loading && !b.desc.Format.Known() {
		b.warnFormat()
	}
	return ClassFor(b.desc.Format, loading)
}

func (b *Button) warnFormat() {
	b.formatWarned.Do(func() {
		logging.LogUnknownFormat(b.desc.Label, string(b.desc.Format))
	})
}

// Click handles a user interaction. With a confirm gate it opens the dialog
// and returns without dispatching; otherwise it runs ExecuteAction.
func (b *Button) Click(ctx context.Context) error {
	logging.Debug("Button clicked", zap.String("button", b.desc.Label))

	if b.desc.Confirm != nil {
		b.setState(func(s *State) {
			s.Phase = PhaseConfirmPending
			s.Loading = true
			s.ConfirmOpen = true
		})
		return nil
	}
	return b.ExecuteAction(ctx)
}

// Confirm is the affirmative answer to the confirmation dialog.
func (b *Button) Confirm(ctx context.Context) error {
	if !b.State().ConfirmOpen {
		return ErrNoPendingConfirmation
	}
	return b.ExecuteAction(ctx)
}

// Cancel is the negative answer to the confirmation dialog. It clears the
// loading flag and closes the dialog without dispatching.
func (b *Button) Cancel() {
	b.ResetConfirmState()
}

// ResetConfirmState clears the loading flag and closes the dialog.
func (b *Button) ResetConfirmState() {
	b.setState(func(s *State) {
		s.Phase = PhaseIdle
		s.Loading = false
		s.ConfirmOpen = false
	})
}

// ExecuteAction dispatches the button.
//
// Link buttons call the LinkOpener once and return its error. Callback and
// backend action failures are logged and clear the loading flag; they are
// not returned. A failed page transition leaves the button loading and
// returns the Navigator's error.
//
// A descriptor without a mode panics with a *ConfigError: it can only be
// reached by bypassing New and is an integration bug.
func (b *Button) ExecuteAction(ctx context.Context) error {
	b.ResetConfirmState()

	desc := b.desc
	if link, ok := desc.Mode.(LinkMode); ok {
		logging.LogDispatch(desc.Label, string(KindLink), desc.Target())
		b.setPhase(PhaseDispatching)
		err := b.opener.Open(ctx, link.Href, link.Target)
		b.setPhase(PhaseIdle)
		return err
	}

	switch m := desc.Mode.(type) {
	case CallbackMode:
		b.startLoading(desc)
		err := m.Fn(ctx, desc)
		b.settle()
		if err != nil {
			logging.Warn("Button callback failed", zap.String("button", desc.Label), zap.Error(err))
		}
		return nil

	case BackendActionMode:
		b.startLoading(desc)
		_, err := b.invoker.Invoke(ctx, ActionRequest{Action: m.Name})
		b.settle()
		if err != nil {
			logging.Warn("Backend action failed",
				zap.String("button", desc.Label),
				zap.String("action", m.Name),
				zap.Error(err),
			)
		}
		return nil

	case PageMode:
		b.startLoading(desc)
		if err := b.navigator.TransitionTo(ctx, b.route, m.Page); err != nil {
			// loading stays set
			b.setPhase(PhaseIdle)
			return fmt.Errorf("transition to page %q: %w", m.Page, err)
		}
		b.settle()
		return nil

	default:
		panic(&ConfigError{Label: desc.Label, Err: ErrNoDispatchTarget})
	}
}

func (b *Button) startLoading(desc Descriptor) {
	logging.LogDispatch(desc.Label, string(desc.Mode.Kind()), desc.Target())
	b.setState(func(s *State) {
		s.Phase = PhaseDispatching
		s.Loading = true
	})
}

func (b *Button) settle() {
	b.setState(func(s *State) {
		s.Phase = PhaseIdle
		s.Loading = false
	})
}

func (b *Button) setPhase(p Phase) {
	b.setState(func(s *State) { s.Phase = p })
}

// setState applies fn under the lock and notifies listeners with the result.
func (b *Button) setState(fn func(*State)) {
	b.mu.Lock()
	before := b.state
	fn(&b.state)
	after := b.state
	b.mu.Unlock()

	if after == before {
		return
	}
	logging.LogStateChange(b.desc.Label, after.Phase.String(), after.Loading, after.ConfirmOpen)
	for _, l := range b.listeners {
		l(after)
	}
}
