package config

import (
	"time"

	"github.com/muurk/consolekit/internal/button"
)

// Settings represents the user configuration file.
type Settings struct {
	Version  int              `yaml:"version"`
	Backend  *BackendSettings `yaml:"backend,omitempty"`
	Route    string           `yaml:"route,omitempty"`     // Route name passed to the navigator
	LogLevel string           `yaml:"log_level,omitempty"` // debug, info, warn or error
	Discover *DiscoverPrefs   `yaml:"discover,omitempty"`
}

// BackendSettings locates the service that runs backend actions.
type BackendSettings struct {
	URL       string        `yaml:"url,omitempty"`       // e.g. http://127.0.0.1:8088
	Transport string        `yaml:"transport,omitempty"` // http or websocket
	Timeout   time.Duration `yaml:"timeout,omitempty"`   // Per-action timeout, e.g. 10s
}

// DiscoverPrefs controls mDNS lookup of a backend when no URL is configured.
type DiscoverPrefs struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Defaults for a fresh Settings.
const (
	DefaultBackendURL      = "http://127.0.0.1:8088"
	DefaultTransport       = "http"
	DefaultActionTimeout   = 10 * time.Second
	DefaultDiscoverTimeout = 5 * time.Second
)

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: 1}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Backend == nil {
		s.Backend = &BackendSettings{}
	}
	if s.Backend.URL == "" {
		s.Backend.URL = DefaultBackendURL
	}
	if s.Backend.Transport == "" {
		s.Backend.Transport = DefaultTransport
	}
	if s.Backend.Timeout <= 0 {
		s.Backend.Timeout = DefaultActionTimeout
	}
	if s.Route == "" {
		s.Route = button.DefaultRoute
	}
	if s.Discover == nil {
		s.Discover = &DiscoverPrefs{}
	}
	if s.Discover.Timeout <= 0 {
		s.Discover.Timeout = DefaultDiscoverTimeout
	}
}

// Screens is a screen file: the pages of a console and their buttons.
type Screens struct {
	Version int              `yaml:"version"`
	Start   string           `yaml:"start,omitempty"` // First page shown; defaults to the first page in file order
	Pages   map[string]*Page `yaml:"pages"`

	// order keeps the pages in file order; yaml maps are unordered
	order []string
}

// Page is one screen of buttons.
type Page struct {
	Title       string       `yaml:"title,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Buttons     []ButtonSpec `yaml:"buttons"`
}

// ButtonSpec is the YAML form of a button descriptor. Exactly one of Href,
// OnClick, Action or Page is expected.
type ButtonSpec struct {
	Label    string          `yaml:"label"`
	Format   string          `yaml:"format,omitempty"`
	Tooltip  string          `yaml:"tooltip,omitempty"`
	Disabled bool            `yaml:"disabled,omitempty"`
	Href     string          `yaml:"href,omitempty"`
	Target   string          `yaml:"target,omitempty"`
	OnClick  string          `yaml:"on_click,omitempty"` // Name in the callback registry
	Action   string          `yaml:"action,omitempty"`
	Page     string          `yaml:"page,omitempty"`
	Confirm  *button.Confirm `yaml:"confirm,omitempty"`
}

// Callbacks maps on_click names to callbacks.
type Callbacks map[string]button.Callback
