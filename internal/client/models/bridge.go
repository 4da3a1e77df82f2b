package models

import "time"

// User is an account on the bridge.
type User struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
}

// PublicKey is the public information about a registered key.
type PublicKey struct {
	Key  string `json:"key"`
	User string `json:"user"`
}

// Quota holds optional bucket limits in bytes. Zero means server default.
type Quota struct {
	Storage  int64 `json:"storage,omitempty"`
	Transfer int64 `json:"transfer,omitempty"`
}

// Bucket is a named storage container.
type Bucket struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Storage  int64     `json:"storage"`
	Transfer int64     `json:"transfer"`
	Status   string    `json:"status"`
	PubKeys  []string  `json:"pubkeys"`
	User     string    `json:"user"`
	Created  time.Time `json:"created"`
}

// UploadToken authorizes a single push into one bucket.
type UploadToken struct {
	Token     string    `json:"token"`
	Bucket    string    `json:"bucket"`
	Operation string    `json:"operation"`
	Expires   time.Time `json:"expires"`
}

// StoredFile is a file object within a bucket.
type StoredFile struct {
	ID       string `json:"id"`
	Bucket   string `json:"bucket"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}
