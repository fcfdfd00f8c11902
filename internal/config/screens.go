package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/logging"
)

var (
	// ErrUnknownCallback means on_click names a callback that is not registered.
	ErrUnknownCallback = errors.New("unknown callback")

	// ErrUnknownTarget means a page button points at a page the file does not define.
	ErrUnknownTarget = errors.New("target page not defined")

	// ErrNoPages means the screen file defines no pages.
	ErrNoPages = errors.New("no pages defined")
)

// ScreenError locates a problem in a screen file.
type ScreenError struct {
	Page  string
	Index int // Button index within the page, -1 for page-level errors
	Err   error
}

// Error implements the error interface
func (e *ScreenError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("page %q: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("page %q button #%d: %v", e.Page, e.Index+1, e.Err)
}

// Unwrap returns the underlying error
func (e *ScreenError) Unwrap() error {
	return e.Err
}

// LoadScreens reads and parses a screen file. It does not validate it.
func LoadScreens(path string) (*Screens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screen file: %w", err)
	}
	return ParseScreens(data)
}

// ParseScreens parses a screen document.
func ParseScreens(data []byte) (*Screens, error) {
	var screens Screens
	if err := yaml.Unmarshal(data, &screens); err != nil {
		return nil, fmt.Errorf("failed to parse screen file: %w", err)
	}
	if screens.Version == 0 {
		screens.Version = 1
	}
	if screens.Version != 1 {
		return nil, fmt.Errorf("unsupported screen file version: %d (expected 1)", screens.Version)
	}
	return &screens, nil
}

// UnmarshalYAML decodes the document and records the page order.
func (s *Screens) UnmarshalYAML(value *yaml.Node) error {
	type plain Screens
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Screens(p)

	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value != "pages" || value.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		pages := value.Content[i+1]
		for j := 0; j+1 < len(pages.Content); j += 2 {
			s.order = append(s.order, pages.Content[j].Value)
		}
	}
	return nil
}

// PageNames returns the page names in file order. Screens built in code
// list their pages alphabetically.
func (s *Screens) PageNames() []string {
	if len(s.order) == len(s.Pages) {
		return append([]string(nil), s.order...)
	}
	names := make([]string, 0, len(s.Pages))
	for name := range s.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StartPage returns Start, or the first page when Start is empty.
func (s *Screens) StartPage() string {
	if s.Start != "" {
		return s.Start
	}
	if names := s.PageNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// Validate converts every button and checks that page targets exist.
func (s *Screens) Validate(callbacks Callbacks) error {
	if len(s.Pages) == 0 {
		return ErrNoPages
	}
	if _, ok := s.Pages[s.StartPage()]; !ok {
		return fmt.Errorf("start page %q: %w", s.Start, ErrUnknownTarget)
	}

	var errs []error
	for _, name := range s.PageNames() {
		descs, err := s.Descriptors(name, callbacks)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i, d := range descs {
			if pm, ok := d.Mode.(button.PageMode); ok {
				if _, exists := s.Pages[pm.Page]; !exists {
					errs = append(errs, &ScreenError{Page: name, Index: i, Err: fmt.Errorf("%w: %q", ErrUnknownTarget, pm.Page)})
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Descriptors converts the buttons of page. The first invalid button stops
// the conversion.
func (s *Screens) Descriptors(page string, callbacks Callbacks) ([]button.Descriptor, error) {
	p, ok := s.Pages[page]
	if !ok || p == nil {
		return nil, &ScreenError{Page: page, Index: -1, Err: ErrUnknownTarget}
	}

	descs := make([]button.Descriptor, 0, len(p.Buttons))
	for i, spec := range p.Buttons {
		d, err := spec.Descriptor(callbacks)
		if err != nil {
			return nil, &ScreenError{Page: page, Index: i, Err: err}
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// Descriptor converts the spec into a validated button.Descriptor. When more
// than one target is set the first of href, on_click, action and page wins.
func (b ButtonSpec) Descriptor(callbacks Callbacks) (button.Descriptor, error) {
	desc := button.Descriptor{
		Label:    b.Label,
		Format:   button.Format(strings.TrimSpace(b.Format)),
		Tooltip:  b.Tooltip,
		Disabled: b.Disabled,
		Confirm:  b.Confirm,
	}

	if set := b.targets(); len(set) > 1 {
		logging.Warn("Button has more than one target, using the first",
			zap.String("button", b.Label),
			zap.Strings("targets", set),
		)
	}

	switch {
	case b.Href != "":
		desc.Mode = button.LinkMode{Href: b.Href, Target: b.Target}
	case b.OnClick != "":
		fn, ok := callbacks[b.OnClick]
		if !ok {
			return desc, &button.ConfigError{Label: b.Label, Field: "on_click", Err: fmt.Errorf("%w: %q", ErrUnknownCallback, b.OnClick)}
		}
		desc.Mode = button.CallbackMode{Fn: fn}
	case b.Action != "":
		desc.Mode = button.BackendActionMode{Name: b.Action}
	case b.Page != "":
		desc.Mode = button.PageMode{Page: b.Page}
	}

	return desc, desc.Validate()
}

func (b ButtonSpec) targets() []string {
	var set []string
	if b.Href != "" {
		set = append(set, "href")
	}
	if b.OnClick != "" {
		set = append(set, "on_click")
	}
	if b.Action != "" {
		set = append(set, "action")
	}
	if b.Page != "" {
		set = append(set, "page")
	}
	return set
}
