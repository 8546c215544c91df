package gfx

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAllocationFailed is returned when a buffer cannot be allocated.
	ErrAllocationFailed = errors.New("gfx: allocation failed")
	// ErrBufferBusy is returned when releasing a buffer that is still leased
	// by an in-flight transfer.
	ErrBufferBusy = errors.New("gfx: buffer busy")
)

// Heap is the byte budget buffers are allocated from.
//
// It models the RAM the device can spare for pixel data: an allocation that
// would exceed the limit fails instead of taking the system down. A limit of
// 0 means unlimited.
type Heap struct {
	mu    sync.Mutex
	limit int
	used  int
}

// NewHeap returns a heap with the given limit in bytes.
func NewHeap(limit int) *Heap {
	if limit < 0 {
		limit = 0
	}
	return &Heap{limit: limit}
}

// Limit returns the heap limit in bytes (0 = unlimited).
func (h *Heap) Limit() int { return h.limit }

// Used returns the number of bytes currently allocated.
func (h *Heap) Used() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

func (h *Heap) reserve(n int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.limit > 0 && h.used+n > h.limit {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrAllocationFailed, n, h.used, h.limit)
	}
	h.used += n
	return nil
}

func (h *Heap) free(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.used -= n
	if h.used < 0 {
		h.used = 0
	}
}
