// Package backend connects backend-action buttons to the service that runs
// the actions.
//
// Two client transports implement button.ActionInvoker:
//   - HTTPInvoker posts {"action": name} to <url>/action
//   - WSInvoker exchanges JSON frames over a single WebSocket connection
//
// Server is the matching http.Handler. Action handlers are registered by name
// and reached through either transport:
//
//	srv := backend.NewServer()
//	srv.Handle("restart", func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
//	    return button.ActionResult{Status: "ok", Message: "restarted"}, nil
//	})
//	err := srv.ListenAndServe(ctx, ":8088")
//
// Transport failures are returned as *RequestError, classified by ErrorType
// so the console can show a short message via ShortMessage.
package backend
