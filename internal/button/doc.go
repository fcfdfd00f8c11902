// Package button implements the action button of the console: a single
// control that opens a link, calls back into application code, invokes a
// named backend action or transitions to another page, optionally behind a
// confirmation step.
//
// # Descriptor and state
//
// A [Descriptor] is the caller's immutable description of a button: label,
// format, an optional [Confirm] gate and exactly one dispatch [Mode]:
//
//   - [LinkMode]          href (+ target), opened through a [LinkOpener]
//   - [CallbackMode]      a [Callback] owned by the caller
//   - [BackendActionMode] an action name sent through an [ActionInvoker]
//   - [PageMode]          a page reached through a [Navigator]
//
// The [Button] owns the presentation [State] (loading, confirm dialog open)
// and never writes back onto the descriptor. Renderers subscribe with
// [WithStateListener].
//
// # Interaction cycle
//
//	Idle ──Click──▶ ConfirmPending ──Confirm──▶ Dispatching ──settle──▶ Idle
//	  │                   └──Cancel──▶ Idle
//	  └──Click (no confirm gate)──────▶ Dispatching
//
// Callback and backend action failures are logged and only clear the loading
// flag. A failed page transition leaves the button loading and the error is
// returned to the caller.
//
// A button does not guard against re-entry: clicking again while a dispatch
// is in flight dispatches again. Renderers are expected to suppress input
// while [State.Loading] is set (see [Button.Interactive]).
package button
