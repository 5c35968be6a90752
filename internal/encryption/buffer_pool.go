package encryption

import (
	"sync"
)

const bufferSize = 32 * 1024 // 32KB read buffer

// bufferPool provides reusable byte slices for streaming file I/O.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, bufferSize)
	},
}
