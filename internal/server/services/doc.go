// Package services contains the dev bridge business logic: accounts and
// their keys, buckets with quotas and tokens, and file storage. Services
// work against repomanager repositories and a storage.BlobStore; a nil
// *sql.DB means the repositories are not transactional.
package services
