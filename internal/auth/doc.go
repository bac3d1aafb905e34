// Package auth protects chailab apps with optional authentication.
//
// # Overview
//
// Two credential types are accepted:
//
//   - Authorization: Bearer <jwt> signed HS256 with the configured secret
//   - HTTP Basic with a user name and a password checked against bcrypt hashes
//
// Authenticator.Middleware wraps an app handler. When neither a secret nor
// users are configured it returns the handler unchanged. /health and CORS
// preflight requests are never challenged. Rejections are 401 with a JSON
// body {"success": false, "error": "..."} and, when password users exist,
// WWW-Authenticate: Basic realm="chailab".
//
// # Tokens
//
// TokenHandler trades Basic credentials for a JWT:
//
//	curl -u ada:hunter2 -X POST http://127.0.0.1:7860/api/token
//
// The chailab CLI can also mint tokens directly with `chailab token`.
//
// # Identity
//
// Handlers read the caller with FromContext, which returns nil for
// unauthenticated requests.
package auth
