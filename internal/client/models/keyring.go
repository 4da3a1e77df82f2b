package models

// KeyRingEntry maps a stored file to the secret needed to decrypt it.
type KeyRingEntry struct {
	FileID string
	Key    []byte
	IV     []byte
}

// KeyRingRecord is the persisted, sealed form of a KeyRingEntry.
type KeyRingRecord struct {
	FileID     string
	Ciphertext []byte
	Nonce      []byte
}
