// Package client is the bridge session client.
//
// # Overview
//
// A Session is an authenticated handle bound to one identity and one bridge
// endpoint. It is built explicitly with Authenticate and passed to whoever
// needs it; re-authenticating produces a new Session rather than mutating a
// shared one.
//
// Two auth modes are supported:
//
//   - AuthModePassword: HTTP basic auth with the email and the SHA-256 hex
//     digest of the password.
//   - AuthModeKeyPair: every request carries a replay nonce and an ECDSA
//     signature of "METHOD\nPATH\nPAYLOAD" in the x-pubkey and x-signature
//     headers.
//
// # Concurrency
//
// A Session allows at most Concurrency requests in flight (default 6).
// Further requests wait for a slot or for their context to be cancelled;
// they never fail because the limit was reached.
//
// # Error Handling
//
// Failures are reported through the sentinel taxonomy in errors.go:
// ErrAuthentication, ErrValidation, ErrNetwork, ErrService (with
// *ServiceError carrying status, code and message), ErrNotFound,
// ErrEmptyResult and ErrIO. Validation happens before any network call.
//
// # Typical Usage
//
//	s, err := client.Authenticate("https://api.storj.io", client.AuthModeKeyPair,
//	    client.Credentials{KeyPair: kp}, client.WithConcurrency(6))
//	if err != nil { ... }
//	buckets, err := s.GetBuckets(ctx)
package client
