// Package webui serves chailab apps over HTTP.
//
// # Routes
//
// Both flavors serve:
//
//	GET  /                       page shell with the embedded config and theme CSS
//	GET  /config                 the page config as JSON
//	GET  /health                 "OK"
//	GET  /static/*               embedded client assets
//	GET  /api/predictions        recent calls (when a store is configured)
//	GET  /api/predictions/stats  call counts and durations (when a store is configured)
//	POST /api/token              Basic credentials for a JWT (when auth is enabled)
//
// Form apps add POST /api/predict, chat apps add POST /api/chat.
//
// # Responses
//
// API failures are {"success": false, "error": "..."}. Malformed bodies and
// undecodable values are 400 and the wrapped function is not called. Errors
// and panics from the function are 500 with the function's own message.
//
// # Middleware
//
// Every response carries X-Request-ID. Requests are logged through slog and
// CORS allows any origin.
package webui
