// Package storage provides a read-only abstraction over an S3-compatible
// object store.
//
// It wraps the MinIO Go client so that the platform package can resolve
// s3:// scheme URLs (style bundles and zipped tile archives hosted in a
// bucket) through the same request/callback contract used for http and
// file URLs. The engine never writes to object storage, so the Client
// interface here is deliberately read-only, unlike the read/write client
// this package's shape is descended from.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making
// it easy to mock storage interactions for unit testing (see
// core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "styles")
package storage
