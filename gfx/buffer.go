package gfx

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// MaxDimension is the largest width or height a buffer may have.
const MaxDimension = 65535

// Surface is the format-erased view of a buffer consumed by transfer
// hardware.
type Surface interface {
	Width() int
	Height() int
	Format() Format
	Bytes() []byte

	// Acquire marks the surface as read by an in-flight transfer; Unlease
	// drops that mark. Calls nest.
	Acquire()
	Unlease()
}

// Buffer is a rectangular array of samples of type T, stored row-major.
//
// A Buffer is owned by whoever currently writes it. Once handed to a
// transfer it is leased and must not be written or released until the
// transfer completes.
type Buffer[T Sample] struct {
	w, h  int
	words []uint32
	pix   []T
	heap  *Heap
	size  int
	lease atomic.Int32
}

// Alloc allocates a zeroed w x h buffer from heap. It returns
// ErrAllocationFailed and no buffer when the size is invalid or the heap
// budget is exhausted.
func Alloc[T Sample](heap *Heap, w, h int) (*Buffer[T], error) {
	if w < 0 || h < 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocationFailed, w, h)
	}
	if heap == nil {
		heap = DefaultHeap
	}
	n := w * h
	nwords := (n*sampleSize[T]() + 3) / 4
	size := nwords * 4
	if err := heap.reserve(size); err != nil {
		return nil, err
	}
	b := &Buffer[T]{w: w, h: h, heap: heap, size: size}
	if nwords > 0 {
		b.words = make([]uint32, nwords)
		b.pix = unsafe.Slice((*T)(unsafe.Pointer(&b.words[0])), n)
	}
	return b, nil
}

// NewBuffer allocates a zeroed w x h buffer from DefaultHeap.
func NewBuffer[T Sample](w, h int) (*Buffer[T], error) {
	return Alloc[T](DefaultHeap, w, h)
}

// Release returns the buffer's memory to its heap. It fails with
// ErrBufferBusy while a transfer still reads the buffer. Releasing twice is
// a no-op.
func (b *Buffer[T]) Release() error {
	if b == nil || b.heap == nil {
		return nil
	}
	if b.lease.Load() > 0 {
		return ErrBufferBusy
	}
	b.heap.free(b.size)
	b.heap = nil
	b.words = nil
	b.pix = nil
	b.w, b.h, b.size = 0, 0, 0
	return nil
}

func (b *Buffer[T]) Width() int  { return b.w }
func (b *Buffer[T]) Height() int { return b.h }

// Format returns the sample format of the buffer.
func (b *Buffer[T]) Format() Format { return FormatOf[T]() }

// Pix returns the raw samples, indexed by y*Width()+x.
func (b *Buffer[T]) Pix() []T { return b.pix }

// At returns the sample at (x, y), or zero outside the buffer.
func (b *Buffer[T]) At(x, y int) T {
	if uint(x) >= uint(b.w) || uint(y) >= uint(b.h) {
		var zero T
		return zero
	}
	return b.pix[y*b.w+x]
}

// Set writes c at (x, y). Writes outside the buffer are dropped.
func (b *Buffer[T]) Set(x, y int, c T) {
	if uint(x) >= uint(b.w) || uint(y) >= uint(b.h) {
		return
	}
	b.pix[y*b.w+x] = c
}

// Fill sets every sample to c.
func (b *Buffer[T]) Fill(c T) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// Row returns the samples of row y.
func (b *Buffer[T]) Row(y int) []T {
	return b.pix[y*b.w : (y+1)*b.w]
}

// Bytes returns the samples as bytes in memory order, which is little-endian
// on every target this package runs on.
func (b *Buffer[T]) Bytes() []byte {
	n := len(b.pix) * sampleSize[T]()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.words[0])), n)
}

// WordBytes is Bytes padded to a whole number of 32-bit words.
func (b *Buffer[T]) WordBytes() []byte {
	if len(b.words) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.words[0])), len(b.words)*4)
}

func (b *Buffer[T]) Acquire() { b.lease.Add(1) }

func (b *Buffer[T]) Unlease() {
	if b.lease.Add(-1) < 0 {
		b.lease.Store(0)
	}
}

// Leased reports whether a transfer currently reads the buffer.
func (b *Buffer[T]) Leased() bool { return b.lease.Load() > 0 }
