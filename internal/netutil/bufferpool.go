// Package netutil holds small pieces of infrastructure that don't belong
// to any single protocol: a scratch buffer pool that internal/driver uses
// to cut allocations when serializing frames for the wire.
package netutil

import "sync"

// BufferPool is a sync.Pool of fixed-capacity byte slices. Get returns a
// slice with cap == size (len == size); Put recycles a slice obtained
// from Get. Safe to share across goroutines; the CORE packages
// (netiface, router) do not use it.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool of buffers with the given fixed capacity.
func NewBufferPool(size int) *BufferPool {
	bp := &BufferPool{size: size}
	bp.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return bp
}

// Get returns a buffer of this pool's configured size.
func (bp *BufferPool) Get() []byte {
	ptr := bp.pool.Get().(*[]byte)
	return (*ptr)[:bp.size]
}

// Put returns a buffer to the pool for reuse. The caller must not use
// buf after calling Put.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.size {
		return
	}
	buf = buf[:bp.size]
	bp.pool.Put(&buf)
}
