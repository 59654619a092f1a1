// Package server provides the loopback HTTP endpoint for the CLI login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] with method-qualified patterns.
//
// # Callback Handler
//
// [CallbackHandler] implements the authorization-code callback leg of the
// PKCE login flow. When the user runs `wrapped auth login`, a temporary
// HTTP server starts on the configured loopback address, the handler
// receives the provider's redirect, delegates the code exchange to the
// authentication manager, and reports the outcome through a channel so
// the CLI can shut the server down.
//
// The handler processes exactly one callback. Replay protection comes
// from the single-use code verifier: once the exchange succeeds the
// verifier is deleted, so a replayed redirect cannot complete a second
// exchange.
package server
