package workpool

// Config sizes the pools that back scene loading and tile decode.
type Config struct {
	// DecodePoolSize is the number of workers in the unbounded decode
	// pool used for zip decompression and tile payload decoding.
	DecodePoolSize int `mapstructure:"decode_pool_size" default:"4"`
	// OrderedQueueDepth is the buffer depth of the ordered scene worker's
	// task queue before Post blocks the caller.
	OrderedQueueDepth int `mapstructure:"ordered_queue_depth" default:"8"`
}
