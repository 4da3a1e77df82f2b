// Package models defines the dev bridge data model. JSON tags describe the
// wire form returned to clients; secret fields are never serialized.
package models

import "time"

const BucketStatusActive = "Active"

type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Salt     []byte    `json:"-"`
	Verifier []byte    `json:"-"`
	Created  time.Time `json:"created"`
}

// PublicKey is a key registered by a user. User holds the owner's email in
// responses.
type PublicKey struct {
	Key    string `json:"key"`
	UserID string `json:"-"`
	User   string `json:"user"`
}

type Bucket struct {
	ID       string    `json:"id"`
	UserID   string    `json:"-"`
	User     string    `json:"user"`
	Name     string    `json:"name"`
	Storage  int64     `json:"storage"`
	Transfer int64     `json:"transfer"`
	Used     int64     `json:"used"`
	Status   string    `json:"status"`
	PubKeys  []string  `json:"pubkeys"`
	Created  time.Time `json:"created"`
}

// Token is an issued single-use bucket token.
type Token struct {
	Token     string    `json:"token"`
	Bucket    string    `json:"bucket"`
	Operation string    `json:"operation"`
	Expires   time.Time `json:"expires"`
}

// File is a stored object. BlobKey locates its content in the blob store.
type File struct {
	ID       string    `json:"id"`
	BucketID string    `json:"bucket"`
	Filename string    `json:"filename"`
	Mimetype string    `json:"mimetype"`
	Size     int64     `json:"size"`
	BlobKey  string    `json:"-"`
	Created  time.Time `json:"created"`
}
