// Package cli wires the bridgekeeper client together and runs the
// demonstration workflow once.
//
// Run opens the credential file and the local key ring, authenticates with
// the stored key pair (bootstrapping one from the configured account when
// none is stored), and then runs the workflow steps in order. The first
// failing step ends the run; its error is returned to the caller.
//
// When an email is configured without a password and stdin is a terminal,
// the password is read from the terminal without echo.
package cli
