package button

import (
	"context"
	"strings"
)

// Callback is caller code run by a CallbackMode button. It receives the
// button's descriptor and must return once the work has settled.
type Callback func(ctx context.Context, desc Descriptor) error

// Confirm describes the confirmation dialog shown before dispatch.
type Confirm struct {
	Label        string `yaml:"label" json:"label"`
	Description  string `yaml:"description" json:"description"`
	ConfirmLabel string `yaml:"confirm_label,omitempty" json:"confirm_label,omitempty"`
	CancelLabel  string `yaml:"cancel_label,omitempty" json:"cancel_label,omitempty"`
}

// Default dialog button captions.
const (
	DefaultConfirmLabel = "Confirm"
	DefaultCancelLabel  = "Cancel"
)

// ConfirmText returns the caption of the affirmative dialog button.
func (c Confirm) ConfirmText() string {
	if c.ConfirmLabel == "" {
		return DefaultConfirmLabel
	}
	return c.ConfirmLabel
}

// CancelText returns the caption of the negative dialog button.
func (c Confirm) CancelText() string {
	if c.CancelLabel == "" {
		return DefaultCancelLabel
	}
	return c.CancelLabel
}

// ModeKind names a dispatch mode.
type ModeKind string

const (
	KindLink     ModeKind = "link"
	KindCallback ModeKind = "callback"
	KindAction   ModeKind = "action"
	KindPage     ModeKind = "page"
)

// Mode is the dispatch target of a button. It is one of LinkMode,
// CallbackMode, BackendActionMode or PageMode.
type Mode interface {
	Kind() ModeKind
	validate(label string) error
}

// LinkMode renders the button as a hyperlink.
type LinkMode struct {
	Href   string
	Target string
}

// CallbackMode runs caller code.
type CallbackMode struct {
	Fn Callback
}

// BackendActionMode invokes a named backend action.
type BackendActionMode struct {
	Name string
}

// PageMode transitions to another page of the console.
type PageMode struct {
	Page string
}

func (LinkMode) Kind() ModeKind          { return KindLink }
func (CallbackMode) Kind() ModeKind      { return KindCallback }
func (BackendActionMode) Kind() ModeKind { return KindAction }
func (PageMode) Kind() ModeKind          { return KindPage }

func (m LinkMode) validate(label string) error {
	if strings.TrimSpace(m.Href) == "" {
		return configErr(label, "href", "must not be empty")
	}
	return nil
}

func (m CallbackMode) validate(label string) error {
	if m.Fn == nil {
		return configErr(label, "onClick", "callback must not be nil")
	}
	return nil
}

func (m BackendActionMode) validate(label string) error {
	if strings.TrimSpace(m.Name) == "" {
		return configErr(label, "action", "must not be empty")
	}
	return nil
}

func (m PageMode) validate(label string) error {
	if strings.TrimSpace(m.Page) == "" {
		return configErr(label, "page", "must not be empty")
	}
	return nil
}

// Descriptor is the caller-owned description of a button. Buttons copy it
// and never modify it.
type Descriptor struct {
	Label    string
	Format   Format
	Tooltip  string
	Disabled bool
	Confirm  *Confirm
	Mode     Mode
}

// IsLink reports whether the button renders as a hyperlink.
func (d Descriptor) IsLink() bool {
	_, ok := d.Mode.(LinkMode)
	return ok
}

// Validate checks the descriptor invariants. A descriptor without a mode
// yields a ConfigError wrapping ErrNoDispatchTarget.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return configErr(d.Label, "label", "must not be empty")
	}
	if d.Confirm != nil {
		if strings.TrimSpace(d.Confirm.Label) == "" {
			return configErr(d.Label, "confirm.label", "must not be empty")
		}
		if strings.TrimSpace(d.Confirm.Description) == "" {
			return configErr(d.Label, "confirm.description", "must not be empty")
		}
	}
	if d.Mode == nil {
		return &ConfigError{Label: d.Label, Err: ErrNoDispatchTarget}
	}
	return d.Mode.validate(d.Label)
}

// Target returns a short human readable dispatch target ("page:home",
// "action:revoke", ...), used in logs and listings.
func (d Descriptor) Target() string {
	switch m := d.Mode.(type) {
	case LinkMode:
		return "link:" + m.Href
	case CallbackMode:
		return "callback"
	case BackendActionMode:
		return "action:" + m.Name
	case PageMode:
		return "page:" + m.Page
	default:
		return "none"
	}
}
