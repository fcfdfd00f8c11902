package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/logging"
	"github.com/muurk/consolekit/internal/router"
	"github.com/muurk/consolekit/internal/ui"
)

// pressDoneMsg reports that a dispatch started by a key press has settled.
type pressDoneMsg struct {
	page  string // Page the button belongs to
	index int
	err   error
}

// Options configures a console Model.
type Options struct {
	Screens   *config.Screens
	Callbacks config.Callbacks
	Invoker   button.ActionInvoker // Optional; action buttons fail to load without it
	Opener    button.LinkOpener
	Route     string
	Backend   string // Shown in the header
}

// Model is the Bubble Tea model of the interactive console.
type Model struct {
	opts    Options
	router  *router.Router
	tracker *tracker
	ctx     context.Context

	page    string
	buttons []*button.Button
	cursor  int
	modal   int // Index of the button whose dialog is open, -1 when closed

	status    string
	statusErr bool
	loadErr   error

	Spinner  spinner.Model
	Help     help.Model
	keys     pageKeyMap
	confKeys confirmKeyMap
	width    int
	height   int
}

// New creates the console model and loads the start page.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Screens == nil {
		return Model{}, fmt.Errorf("no screens loaded")
	}
	if opts.Route == "" {
		opts.Route = button.DefaultRoute
	}
	if opts.Opener == nil {
		opts.Opener = router.BrowserOpener{}
	}

	r := router.New(opts.Route)
	start := opts.Screens.StartPage()
	r.Register(start)
	r.Register(opts.Screens.PageNames()...)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	width, height := ui.GetTerminalSize()
	m := Model{
		opts:     opts,
		router:   r,
		ctx:      ctx,
		modal:    -1,
		Spinner:  s,
		Help:     help.New(),
		keys:     newPageKeyMap(),
		confKeys: newConfirmKeyMap(),
		width:    width,
		height:   height,
	}
	if opts.Invoker != nil {
		m.tracker = newTracker(opts.Invoker)
	}
	if err := m.load(r.Current()); err != nil {
		return Model{}, err
	}
	return m, nil
}

// load replaces the buttons with those of page.
func (m *Model) load(page string) error {
	descs, err := m.opts.Screens.Descriptors(page, m.opts.Callbacks)
	if err != nil {
		return err
	}

	opts := []button.Option{
		button.WithNavigator(m.router),
		button.WithLinkOpener(m.opts.Opener),
		button.WithRoute(m.opts.Route),
	}
	if m.tracker != nil {
		opts = append(opts, button.WithInvoker(m.tracker))
	}

	buttons := make([]*button.Button, 0, len(descs))
	for i, d := range descs {
		b, err := button.New(d, opts...)
		if err != nil {
			return &config.ScreenError{Page: page, Index: i, Err: err}
		}
		buttons = append(buttons, b)
	}

	m.page = page
	m.buttons = buttons
	m.cursor = 0
	m.modal = -1
	logging.Debug("Page loaded", zap.String("page", page), zap.Int("buttons", len(buttons)))
	return nil
}

// Page returns the page shown.
func (m Model) Page() string {
	return m.page
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case pressDoneMsg:
		return m.settle(msg), nil

	case tea.KeyMsg:
		if m.modal >= 0 {
			return m.updateConfirm(msg)
		}
		return m.updatePage(msg)
	}
	return m, nil
}

func (m Model) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if len(m.buttons) > 0 {
			m.cursor = (m.cursor - 1 + len(m.buttons)) % len(m.buttons)
		}

	case key.Matches(msg, m.keys.Down):
		if len(m.buttons) > 0 {
			m.cursor = (m.cursor + 1) % len(m.buttons)
		}

	case key.Matches(msg, m.keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll

	case key.Matches(msg, m.keys.Back):
		if m.router.Back() {
			if err := m.load(m.router.Current()); err != nil {
				m.loadErr = err
			}
			m.status = ""
		}

	case key.Matches(msg, m.keys.Press):
		return m.press()
	}
	return m, nil
}

// press clicks the focused button. A confirm gate only opens the dialog;
// everything else is dispatched off the update loop.
func (m Model) press() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.buttons) {
		return m, nil
	}
	b := m.buttons[m.cursor]
	if !b.Interactive() {
		return m, nil
	}

	if b.Descriptor().Confirm != nil {
		_ = b.Click(m.ctx)
		m.modal = m.cursor
		return m, nil
	}

	m.status = ""
	return m, dispatchCmd(m.ctx, m.page, m.cursor, b.Click)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.buttons[m.modal]
	switch {
	case key.Matches(msg, m.confKeys.Confirm):
		idx := m.modal
		m.modal = -1
		m.status = ""
		return m, dispatchCmd(m.ctx, m.page, idx, b.Confirm)

	case key.Matches(msg, m.confKeys.Cancel), key.Matches(msg, m.keys.Quit):
		b.Cancel()
		m.modal = -1
		m.status = "Cancelled: " + ui.ButtonLabel(b.Descriptor())
		m.statusErr = false
	}
	return m, nil
}

// dispatchCmd runs fn (Click or Confirm) in a tea.Cmd.
func dispatchCmd(ctx context.Context, page string, index int, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return pressDoneMsg{page: page, index: index, err: fn(ctx)}
	}
}

// settle reports the outcome of a dispatch and follows page changes.
func (m Model) settle(msg pressDoneMsg) Model {
	if msg.page == m.page && msg.index < len(m.buttons) {
		desc := m.buttons[msg.index].Descriptor()
		label := ui.ButtonLabel(desc)
		switch {
		case msg.err != nil:
			m.status, m.statusErr = fmt.Sprintf("%s: %v", label, msg.err), true
		default:
			m.status, m.statusErr = m.actionStatus(desc, label)
		}
	}

	if current := m.router.Current(); current != m.page {
		if err := m.load(current); err != nil {
			m.loadErr = err
		}
	}
	return m
}

func (m Model) actionStatus(desc button.Descriptor, label string) (string, bool) {
	act, ok := desc.Mode.(button.BackendActionMode)
	if !ok || m.tracker == nil {
		return "", false
	}
	o, ok := m.tracker.take(act.Name)
	if !ok {
		return "", false
	}
	if o.err != nil {
		return fmt.Sprintf("%s failed: %v", label, o.err), true
	}
	text := o.result.Message
	if text == "" {
		text = o.result.Status
	}
	if text == "" {
		text = "done"
	}
	return fmt.Sprintf("%s: %s", label, text), false
}

// View implements tea.Model
func (m Model) View() string {
	if m.loadErr != nil {
		return ui.NewFailureResult("Cannot load page", m.loadErr, nil).SetWidth(m.width).Render() + "\n"
	}

	page := m.opts.Screens.Pages[m.page]
	title, description := m.page, ""
	if page != nil {
		if page.Title != "" {
			title = page.Title
		}
		description = page.Description
	}

	params := []ui.Param{{Key: "Page", Value: fmt.Sprintf("%s (%d deep)", m.page, m.router.Depth())}}
	if m.opts.Backend != "" {
		params = append(params, ui.Param{Key: "Backend", Value: m.opts.Backend})
	}

	var b strings.Builder
	b.WriteString(ui.NewHeader(title, description, params...).SetWidth(m.width).Render())
	b.WriteString("\n\n")

	if len(m.buttons) == 0 {
		b.WriteString(ui.TooltipStyle.Render("  This page has no buttons."))
	} else {
		b.WriteString(ui.RenderButtonList(m.buttons, m.cursor))
	}
	b.WriteString("\n\n")

	if m.busy() {
		b.WriteString(m.Spinner.View() + " Working...\n\n")
	} else if m.status != "" {
		style := ui.ResultValueStyle
		if m.statusErr {
			style = ui.ErrorMessageStyle
		}
		b.WriteString(style.Render("  "+m.status) + "\n\n")
	}

	if m.modal >= 0 {
		if c := m.buttons[m.modal].Descriptor().Confirm; c != nil {
			b.WriteString(ui.RenderConfirmBox(*c, m.width))
			b.WriteString("\n")
			b.WriteString(m.Help.View(m.confKeys))
			return b.String()
		}
	}

	b.WriteString(m.Help.View(m.keys))
	return b.String()
}

// busy reports whether any button is dispatching.
func (m Model) busy() bool {
	for _, b := range m.buttons {
		if b.State().Phase == button.PhaseDispatching {
			return true
		}
	}
	return false
}

// Run starts the console and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
