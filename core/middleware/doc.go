// Package middleware contains HTTP middleware for the optional debug/
// introspection Fiber server.
//
// It provides cross-cutting concerns that sit between the request and the
// handler.
//
// # Components
//
//   - auth: Implements API key validation to protect debug endpoints.
//   - requestid: Reuses an inbound X-Request-Id or generates a new one for
//     every incoming request, injecting it into the context and response
//     headers for tracing.
//
// These middleware components are registered globally in debugserver's
// app setup; they have no role in the engine's tile/scene pipeline itself.
package middleware
