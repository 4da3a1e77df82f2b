// Package services contains the application services of the bridgekeeper
// client: account and key-pair authentication, key management, bucket
// management, file listing and download, and the upload pipeline.
//
// Services depend on the client.Client interface rather than on a concrete
// Session, and on small consumer-side interfaces for the key ring, so each
// can be exercised with fakes.
package services
