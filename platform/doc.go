// Package platform defines the Platform Request Interface: the contract
// the scene/tile pipeline consumes to fetch URL bytes, request a render,
// and toggle continuous rendering, plus a concrete http/file/s3
// implementation of it.
//
// The core never depends directly on net/http, os, or minio-go; it only
// depends on the Requester interface, so that an embedding application can
// supply its own platform-specific transport (e.g. a mobile app's native
// networking stack) without touching scene or tile code.
package platform
