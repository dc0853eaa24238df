package platform

import "mapengine/urladdr"

// Result is delivered to a Callback exactly once. Err is set on fetch
// failure or cancellation; Bytes is nil in that case.
type Result struct {
	Bytes []byte
	Err   error
}

// Callback receives a Result, possibly on a goroutine other than the one
// that called StartURLRequest.
type Callback func(Result)

// Handle identifies one in-flight request for CancelURLRequest.
type Handle uint64

// Requester is the Platform Request Interface the scene/tile pipeline
// consumes. Cancellation is advisory: a callback may still fire after
// CancelURLRequest, with Err set.
type Requester interface {
	StartURLRequest(u urladdr.URL, cb Callback) Handle
	CancelURLRequest(h Handle)
	RequestRender()
	SetContinuousRendering(continuous bool)
	Shutdown()
}
