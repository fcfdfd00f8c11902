package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/router"
)

const testScreens = `
pages:
  home:
    title: Home
    description: Start here
    buttons:
      - label: Restart
        format: terminate
        action: restart
        confirm:
          label: Restart service?
          description: Running jobs will stop.
      - label: Settings
        page: settings
      - label: Docs
        href: https://example.com/docs
      - label: Broken
        action: broken
  settings:
    title: Settings
    buttons:
      - label: Home
        page: home
`

type fakeInvoker struct {
	calls []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
	f.calls = append(f.calls, req.Action)
	if req.Action == "broken" {
		return button.ActionResult{}, errors.New("backend down")
	}
	return button.ActionResult{Status: "ok", Message: "restarted"}, nil
}

func newTestModel(t *testing.T) (Model, *fakeInvoker, *router.Recorder) {
	t.Helper()
	screens, err := config.ParseScreens([]byte(testScreens))
	if err != nil {
		t.Fatal(err)
	}
	inv := &fakeInvoker{}
	rec := &router.Recorder{}
	m, err := New(context.Background(), Options{Screens: screens, Invoker: inv, Opener: rec, Backend: "http://test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m, inv, rec
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyYes   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}
	keyNo    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

// send feeds msg to m and runs any returned command, feeding its message
// back in. Spinner ticks are not produced by key handling.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		out := cmd()
		if _, quit := out.(tea.QuitMsg); quit {
			return m
		}
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestNew_StartPage(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.Page() != "home" {
		t.Errorf("Page() = %s, want home", m.Page())
	}
	if len(m.buttons) != 4 {
		t.Errorf("buttons = %d, want 4", len(m.buttons))
	}
}

func TestNew_MissingInvoker(t *testing.T) {
	screens, err := config.ParseScreens([]byte(testScreens))
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(context.Background(), Options{Screens: screens})
	if !errors.Is(err, button.ErrMissingCollaborator) {
		t.Errorf("New() error = %v, want ErrMissingCollaborator", err)
	}
}

func TestCursorWraps(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = send(t, m, keyUp)
	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}
	m = send(t, m, keyDown)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestPageNavigationAndBack(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(t, m, keyDown)
	m = send(t, m, keyEnter)
	if m.Page() != "settings" {
		t.Fatalf("Page() = %s, want settings", m.Page())
	}
	if !strings.Contains(m.View(), "SETTINGS") {
		t.Errorf("View() should show the settings header:\n%s", m.View())
	}

	m = send(t, m, keyBack)
	if m.Page() != "home" {
		t.Errorf("Page() after back = %s, want home", m.Page())
	}
}

func TestConfirmCancel(t *testing.T) {
	m, inv, _ := newTestModel(t)

	m = send(t, m, keyEnter)
	if m.modal != 0 {
		t.Fatalf("modal = %d, want 0", m.modal)
	}
	st := m.buttons[0].State()
	if !st.Loading || !st.ConfirmOpen {
		t.Errorf("state with dialog open = %+v", st)
	}
	if !strings.Contains(m.View(), "Running jobs will stop.") {
		t.Errorf("View() should show the dialog:\n%s", m.View())
	}

	m = send(t, m, keyNo)
	if m.modal != -1 {
		t.Errorf("modal = %d, want closed", m.modal)
	}
	if st := m.buttons[0].State(); st.Loading || st.ConfirmOpen {
		t.Errorf("state after cancel = %+v", st)
	}
	if len(inv.calls) != 0 {
		t.Errorf("invoker called %v, want no calls", inv.calls)
	}
}

func TestConfirmDispatch(t *testing.T) {
	m, inv, _ := newTestModel(t)

	m = send(t, m, keyEnter)
	m = send(t, m, keyYes)

	if len(inv.calls) != 1 || inv.calls[0] != "restart" {
		t.Fatalf("invoker calls = %v, want [restart]", inv.calls)
	}
	if st := m.buttons[0].State(); st.Loading || st.Phase != button.PhaseIdle {
		t.Errorf("state after dispatch = %+v", st)
	}
	if m.status != "Restart: restarted" || m.statusErr {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
}

func TestActionFailureStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.cursor = 3

	m = send(t, m, keyEnter)
	if !m.statusErr || !strings.Contains(m.status, "backend down") {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
	if m.buttons[3].State().Loading {
		t.Error("failed action should clear loading")
	}
}

func TestLinkPress(t *testing.T) {
	m, _, rec := newTestModel(t)
	m.cursor = 2

	_ = send(t, m, keyEnter)
	links := rec.Links()
	if len(links) != 1 || links[0].Href != "https://example.com/docs" {
		t.Errorf("links = %+v", links)
	}
}

func TestDisabledButtonIgnored(t *testing.T) {
	screens, err := config.ParseScreens([]byte("pages:\n  home:\n    buttons:\n      - {label: Off, page: home, disabled: true}\n"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(context.Background(), Options{Screens: screens})
	if err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(keyEnter)
	if cmd != nil {
		t.Error("pressing a disabled button should not dispatch")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(keyQuit)
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m = next.(Model)
	if m.width != 90 || m.height != 30 {
		t.Errorf("size = %dx%d, want 90x30", m.width, m.height)
	}
}
