// Package importer implements the Scene Importer (spec §4.5): given a root
// URL or inline document text, it fetches and parses the whole import
// graph, merges it depth-first post-order into one document tree, and
// rewrites texture-candidate scalars into absolute URLs.
//
// The importer blocks its calling goroutine on a condition variable while
// fetches are outstanding (spec §5) — it is meant to run on
// scene/lifecycle's ordered worker, never on the main thread. It takes a
// cancel channel rather than polling an atomic so Cancel() can wake a
// blocked Run immediately via a Broadcast, matching the condition-variable
// wakeup spec §5 describes.
package importer
