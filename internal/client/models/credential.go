package models

// Credential format versions.
const (
	// CredentialVersionPlain is a hex encoded private key in a text file.
	CredentialVersionPlain = 1
	// CredentialVersionSealed is a passphrase-sealed private key.
	CredentialVersionSealed = 2
)

// Credential is the long-term identity secret: raw private key bytes and the
// format version they were (or will be) stored in.
type Credential struct {
	Key     []byte
	Version int
}
