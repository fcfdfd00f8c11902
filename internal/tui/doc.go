// Package tui is the interactive console: a Bubble Tea program that shows
// one page of a screen file at a time.
//
// Each page is a list of buttons. The focused button is pressed with enter.
// Buttons with a confirmation gate open a dialog first (y/enter confirms,
// n/esc cancels) and only dispatch on confirmation. Dispatch runs in a
// tea.Cmd so the spinner keeps moving while a backend action is in flight;
// when it settles the console reports the outcome and follows any page
// transition the button made through the router. esc/backspace returns to
// the previous page.
//
// # Usage Example
//
//	err := tui.Run(ctx, tui.Options{
//	    Screens:   screens,
//	    Callbacks: callbacks,
//	    Invoker:   invoker,
//	})
package tui
