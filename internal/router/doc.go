// Package router provides the navigation collaborators of the console
// buttons: a page Router implementing button.Navigator and link openers
// implementing button.LinkOpener.
//
// The Router keeps a history stack of page names. A transition to an
// unknown route or page fails and leaves the history untouched:
//
//	r := router.New(button.DefaultRoute)
//	r.Register("home", "certs")
//	_ = r.TransitionTo(ctx, button.DefaultRoute, "certs")
//	r.Back() // "home"
package router
