package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/consolekit/internal/backend"
	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/router"
	"github.com/muurk/consolekit/internal/ui"
)

// errPressFailed is returned after a failed press has been reported.
var errPressFailed = errors.New("press failed")

// pressCmd runs one button interaction
var pressCmd = &cobra.Command{
	Use:   "press <screens.yaml> <page> <label>",
	Short: "Press one button without the interactive console",
	Long: `Find a button by page and label and press it. Buttons with a
confirmation dialog prompt on stdin unless --yes is given.`,
	Example: `  # Run the restart action on the "ops" page
  consolekit press screens.yaml ops Restart --yes

  # Show what a button would do
  consolekit press screens.yaml home Docs --dry-run`,
	Args: cobra.ExactArgs(3),
	RunE: runPress,
}

// pressOutcome collects what happened during a press. Buttons log callback
// and backend failures instead of returning them.
type pressOutcome struct {
	callbackErr error
	invoker     *recordingInvoker
	links       *router.Recorder
	router      *router.Router
}

func runPress(cmd *cobra.Command, args []string) error {
	screensPath, pageName, label := args[0], args[1], args[2]

	screens, err := config.LoadScreens(screensPath)
	if err != nil {
		return err
	}

	outcome := &pressOutcome{router: router.New(settings.Route)}
	outcome.router.Register(pageName)
	outcome.router.Register(screens.PageNames()...)

	descs, err := screens.Descriptors(pageName, outcome.wrapCallbacks(builtinCallbacks()))
	if err != nil {
		return err
	}
	desc, ok := findButton(descs, label)
	if !ok {
		return fmt.Errorf("page %q has no button %q", pageName, label)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()

	opts := []button.Option{
		button.WithNavigator(outcome.router),
		button.WithRoute(settings.Route),
	}
	if pressDry {
		outcome.links = &router.Recorder{}
		opts = append(opts, button.WithLinkOpener(outcome.links))
	} else {
		opts = append(opts, button.WithLinkOpener(router.BrowserOpener{}))
	}

	params := []ui.Param{
		{Key: "Page", Value: pageName},
		{Key: "Mode", Value: string(desc.Mode.Kind())},
		{Key: "Target", Value: desc.Target()},
	}
	if _, isAction := desc.Mode.(button.BackendActionMode); isAction {
		next := button.ActionInvoker(dryRunInvoker)
		if !pressDry {
			ep := resolveBackend(ctx, settings)
			inv, release, err := newInvoker(ep, settings.Backend.Timeout)
			if err != nil {
				return err
			}
			defer release()
			next = inv
			params = append(params, ui.Param{Key: "Backend", Value: ep.URL})
		}
		outcome.invoker = &recordingInvoker{next: next}
		opts = append(opts, button.WithInvoker(outcome.invoker))
	}

	b, err := button.New(desc, opts...)
	if err != nil {
		return err
	}
	title := ui.ButtonLabel(desc)
	p.PrintHeader(title, desc.Tooltip, params...)

	if desc.Disabled {
		p.PrintWarning("Button is disabled", ui.Param{Key: "Button", Value: title})
		return nil
	}

	dispatchErr := b.Click(ctx)
	if b.State().ConfirmOpen {
		answer := pressYes
		if !answer {
			answer, err = ui.PromptConfirm(cmd.InOrStdin(), p.Writer(), *desc.Confirm, p.Width())
			if err != nil {
				b.Cancel()
				return err
			}
		}
		if !answer {
			b.Cancel()
			return nil
		}
		dispatchErr = b.Confirm(ctx)
	}

	return outcome.report(p, title, desc, dispatchErr)
}

// wrapCallbacks records the error of whichever callback runs.
func (o *pressOutcome) wrapCallbacks(callbacks config.Callbacks) config.Callbacks {
	wrapped := make(config.Callbacks, len(callbacks))
	for name, fn := range callbacks {
		wrapped[name] = func(ctx context.Context, desc button.Descriptor) error {
			o.callbackErr = fn(ctx, desc)
			return o.callbackErr
		}
	}
	return wrapped
}

func (o *pressOutcome) report(p *ui.Printer, title string, desc button.Descriptor, dispatchErr error) error {
	switch m := desc.Mode.(type) {
	case button.LinkMode:
		if dispatchErr != nil {
			p.PrintError(title, dispatchErr, nil)
			return errPressFailed
		}
		if o.links != nil {
			for _, l := range o.links.Links() {
				p.PrintSuccess("Link recorded", ui.Param{Key: "Href", Value: l.Href}, ui.Param{Key: "Target", Value: l.Target})
			}
			return nil
		}
		p.PrintSuccess("Link opened", ui.Param{Key: "Href", Value: m.Href})

	case button.CallbackMode:
		if o.callbackErr != nil {
			p.PrintError(title, o.callbackErr, nil)
			return errPressFailed
		}
		p.PrintSuccess(title)

	case button.BackendActionMode:
		if o.invoker == nil || !o.invoker.called {
			p.PrintWarning("Action was not sent", ui.Param{Key: "Action", Value: m.Name})
			return nil
		}
		if o.invoker.err != nil {
			p.PrintError(backend.ShortMessage(o.invoker.err), o.invoker.err, backend.TroubleshootingHints(o.invoker.err))
			return errPressFailed
		}
		res := o.invoker.result
		details := []ui.Param{{Key: "Action", Value: m.Name}}
		if res.Status != "" {
			details = append(details, ui.Param{Key: "Status", Value: res.Status})
		}
		if res.Message != "" {
			details = append(details, ui.Param{Key: "Message", Value: res.Message})
		}
		if res.Page != "" {
			details = append(details, ui.Param{Key: "Page", Value: res.Page})
		}
		p.PrintSuccess(title, details...)

	case button.PageMode:
		if dispatchErr != nil {
			p.PrintError(title, dispatchErr, nil)
			return errPressFailed
		}
		p.PrintSuccess("Navigated", ui.Param{Key: "Page", Value: o.router.Current()})
	}
	return nil
}

// findButton matches label against the raw label first, then the displayed
// label ignoring case.
func findButton(descs []button.Descriptor, label string) (button.Descriptor, bool) {
	for _, d := range descs {
		if d.Label == label {
			return d, true
		}
	}
	for _, d := range descs {
		if strings.EqualFold(ui.ButtonLabel(d), label) {
			return d, true
		}
	}
	return button.Descriptor{}, false
}
