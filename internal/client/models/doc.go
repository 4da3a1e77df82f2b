// Package models defines the client-side data types exchanged with the
// bridge and persisted locally: credentials, buckets, keys, upload tokens,
// stored files and key ring entries.
package models
