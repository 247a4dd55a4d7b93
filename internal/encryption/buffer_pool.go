package encryption

import (
	"sync"
)

// DefaultChunkSize is the number of bytes read, transformed and written per step.
const DefaultChunkSize = 32 * 1024

// bufferPool holds DefaultChunkSize buffers; other chunk sizes allocate per call.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, DefaultChunkSize)

		return &buf
	},
}

// chunkBuffer returns a buffer of exactly size bytes and a function releasing it.
func chunkBuffer(size int) ([]byte, func()) {
	if size != DefaultChunkSize {
		return make([]byte, size), func() {}
	}

	bufp, ok := bufferPool.Get().(*[]byte)
	if !ok {
		return make([]byte, size), func() {}
	}

	return *bufp, func() { bufferPool.Put(bufp) }
}
