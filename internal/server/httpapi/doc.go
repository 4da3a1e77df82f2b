// Package httpapi exposes the dev bridge over HTTP.
//
// Requests are authenticated either with Basic credentials (email and the
// hex SHA-256 of the password) or with a key pair signature: the x-pubkey
// and x-signature headers sign METHOD, path and payload, where payload is
// the raw query for GET and DELETE and the JSON body otherwise. Every
// signed request carries a single-use __nonce parameter. File pushes are
// authorized by a bucket token in the x-token header instead.
//
// Errors are returned as {"error": message, "code": code}.
package httpapi
