package common

// Bridge HTTP header and parameter names shared by the client and the dev
// bridge server.
const (
	// PubKeyHeaderName carries the compressed hex public key of a signed request.
	PubKeyHeaderName = "x-pubkey"
	// SignatureHeaderName carries the hex DER ECDSA signature of a signed request.
	SignatureHeaderName = "x-signature"
	// TokenHeaderName carries a single-use upload token.
	TokenHeaderName = "x-token"
	// NonceParamName is added to every signed request so it cannot be replayed.
	NonceParamName = "__nonce"
)

// Token operations.
const (
	OperationPush = "PUSH"
	OperationPull = "PULL"
)

// SignedMessage builds the byte string a key pair signs for a request:
// METHOD, path and payload joined by newlines. payload is the encoded query
// for GET and DELETE and the raw JSON body otherwise.
func SignedMessage(method, path string, payload []byte) []byte {
	msg := make([]byte, 0, len(method)+len(path)+len(payload)+2)
	msg = append(msg, method...)
	msg = append(msg, '\n')
	msg = append(msg, path...)
	msg = append(msg, '\n')
	return append(msg, payload...)
}
