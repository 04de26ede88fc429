package buddyalloc

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// Heap is a binary buddy allocator over a single contiguous region of
// memory. It owns no storage of its own: base must point at memory the
// caller has already allocated (a byte slice, a static array, a region
// returned by mmap, ...) and that will outlive the Heap.
//
// A Heap is not safe for concurrent use. Callers needing concurrent access
// must serialize calls to Allocate and Free themselves; this package does
// not provide a lock, per its single-threaded, non-reentrant core design.
type Heap struct {
	base         unsafe.Pointer
	size         uintptr
	k            int
	minBlockSize uintptr
	lists        freeListSet
	logger       *slog.Logger
}

// New constructs a Heap over the region [base, base+size), validating its
// arguments. size must be a power of two and base must be aligned to size;
// otherwise New returns one of ErrNullBase, ErrHeapMisaligned,
// ErrHeapSizeNotPowerOfTwo, ErrHeapTooSmall or ErrInvalidOrderCount. On
// success the entire region is placed on the free list at order K-1.
func New(base unsafe.Pointer, size uintptr, opts Options) (*Heap, error) {
	k := opts.orders()
	if k < 1 {
		return nil, ErrInvalidOrderCount
	}
	if base == nil {
		return nil, ErrNullBase
	}
	if size == 0 || !isPowerOfTwo(size) {
		return nil, cerrors.Wrapf(ErrHeapSizeNotPowerOfTwo, "size %d", size)
	}

	minBlockSize := size >> uint(k-1)
	if minBlockSize < pointerSize {
		return nil, cerrors.Wrapf(ErrHeapTooSmall, "min block size %d for %d orders over %d bytes", minBlockSize, k, size)
	}
	if uintptr(base)&(size-1) != 0 {
		return nil, cerrors.Wrapf(ErrHeapMisaligned, "base %#x, size %d", uintptr(base), size)
	}

	h := newHeap(base, size, k, minBlockSize, opts.Logger)
	return h, nil
}

// NewUnchecked constructs a Heap exactly as New does, but performs none of
// New's validation. It exists for placement in program-load-time storage,
// such as static initialization, where validation code cannot yet run.
// Calling it with arguments that would have failed New's checks is
// undefined behavior from this package's perspective: the resulting Heap
// may corrupt the region, return overlapping blocks, or panic on a nil
// base dereference.
func NewUnchecked(base unsafe.Pointer, size uintptr, opts Options) *Heap {
	k := opts.orders()
	minBlockSize := size >> uint(k-1)
	return newHeap(base, size, k, minBlockSize, opts.Logger)
}

func newHeap(base unsafe.Pointer, size uintptr, k int, minBlockSize uintptr, logger *slog.Logger) *Heap {
	h := &Heap{
		base:         base,
		size:         size,
		k:            k,
		minBlockSize: minBlockSize,
		lists:        freeListSet{heads: make([]unsafe.Pointer, k)},
		logger:       logger,
	}
	h.lists.push(k-1, base)
	return h
}

// Allocate returns a pointer to a block of at least size bytes, aligned to
// align, or one of ErrInvalidAlignment, ErrAllocationTooLarge or
// ErrOutOfMemory. The returned block is uninitialized.
//
// Every call to Allocate must be paired with exactly one call to Free with
// the same size and align; the allocator does not store this information
// itself.
func (h *Heap) Allocate(size uintptr, align uint) (unsafe.Pointer, error) {
	order, err := h.orderForRequest(size, align)
	if err != nil {
		return nil, err
	}

	found := -1
	for candidate := order; candidate < h.k; candidate++ {
		if !h.lists.isEmpty(candidate) {
			found = candidate
			break
		}
	}
	if found < 0 {
		return nil, cerrors.Wrapf(ErrOutOfMemory, "size %d align %d", size, align)
	}

	block := h.lists.pop(found)

	// Split the block down to the target order, always keeping the lower
	// half as the returned block and pushing the upper half to the free
	// list. This fixed policy (never reversed) is what makes the address
	// Allocate returns deterministic given the free-list state.
	for m := found; m > order; m-- {
		lowerOrder := m - 1
		upperHalf := unsafe.Add(block, h.orderSize(lowerOrder))
		h.lists.push(lowerOrder, upperHalf)
	}

	writeDebugMargin(block, size, h.orderSize(order))

	if h.logger != nil {
		h.logger.Debug("buddyalloc: allocated block",
			"address", uintptr(block), "order", order, "size", size, "align", align)
	}

	return block, nil
}

// Free releases a block previously returned by Allocate. size and align
// must match the values passed to the corresponding Allocate call, or the
// heap's bookkeeping will be corrupted. Free returns one of
// ErrInvalidAlignment, ErrAllocationTooLarge or ErrInvalidPointer, or,
// when built with the buddyalloc_debug tag, ErrCorruption if the block's
// debug margin was overwritten; on any error the heap's state is left
// unchanged.
func (h *Heap) Free(ptr unsafe.Pointer, size uintptr, align uint) error {
	order, err := h.orderForRequest(size, align)
	if err != nil {
		return err
	}
	if err := h.validatePointer(ptr, order); err != nil {
		return err
	}
	if !checkDebugMargin(ptr, size, h.orderSize(order)) {
		return cerrors.Wrapf(ErrCorruption, "debug margin corrupted for block %#x", uintptr(ptr))
	}

	block := ptr
	n := order
	for n < h.k-1 {
		buddy := h.buddyPointer(block, n)
		if !h.lists.remove(n, buddy) {
			break
		}
		if uintptr(buddy) < uintptr(block) {
			block = buddy
		}
		n++
	}
	h.lists.push(n, block)

	if h.logger != nil {
		h.logger.Debug("buddyalloc: freed block",
			"address", uintptr(ptr), "order", order, "merged_order", n)
	}

	return nil
}

// Size returns the total size in bytes of the region this Heap manages.
func (h *Heap) Size() uintptr { return h.size }

// Orders returns K, the number of free-list order levels this Heap was
// constructed with.
func (h *Heap) Orders() int { return h.k }

// MinBlockSize returns the smallest block this Heap can allocate.
func (h *Heap) MinBlockSize() uintptr { return h.minBlockSize }
