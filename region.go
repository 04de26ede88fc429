package buddyalloc

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

// pointerSize is the smallest allocation granularity this package can ever
// support: a free block must be large enough to hold one intrusive link
// pointer. See freeNode in freelist.go.
const pointerSize = unsafe.Sizeof(uintptr(0))

// isPowerOfTwo reports whether v is a power of two. Zero is not a power of
// two. Mirrors memutils.CheckPow2's bit trick, inlined here because the
// callers need a bool, not an error.
func isPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// orderSize returns the size in bytes of a block at the given order.
func (h *Heap) orderSize(order int) uintptr {
	return h.minBlockSize << uint(order)
}

// orderForRequest computes the smallest order whose block size is at least
// as large as size, align, and the minimum link-pointer size. Because a
// block of order n is always aligned to its own size, satisfying size via
// order automatically satisfies any alignment up to that size with no
// separate padding step.
//
// This is written as the "obvious" doubling loop rather than a log2-and-
// round-up computation: K is small (a handful of iterations at most), and
// the loop avoids any assumption about how many bits of the address space
// are in play.
func (h *Heap) orderForRequest(size uintptr, align uint) (int, error) {
	if align == 0 || !isPowerOfTwo(uintptr(align)) {
		return 0, cerrors.Wrapf(ErrInvalidAlignment, "alignment %d", align)
	}

	required := size
	if uintptr(align) > required {
		required = uintptr(align)
	}
	if pointerSize > required {
		required = pointerSize
	}

	order := 0
	blockSize := h.minBlockSize
	for order < h.k && blockSize < required {
		blockSize <<= 1
		order++
	}

	if order >= h.k || blockSize < required {
		return 0, cerrors.Wrapf(ErrAllocationTooLarge, "size %d align %d", size, align)
	}
	return order, nil
}

// buddyPointer returns the buddy of block at the given order: the other
// half of the block it would have been split from, found by toggling the
// order's size bit in the block's offset relative to the heap base.
func (h *Heap) buddyPointer(block unsafe.Pointer, order int) unsafe.Pointer {
	rel := uintptr(block) - uintptr(h.base)
	return unsafe.Add(h.base, rel^h.orderSize(order))
}

// validatePointer checks that ptr lies inside the heap region and is
// aligned to the block size implied by order.
func (h *Heap) validatePointer(ptr unsafe.Pointer, order int) error {
	if ptr == nil {
		return cerrors.Wrap(ErrInvalidPointer, "nil pointer")
	}

	addr := uintptr(ptr)
	base := uintptr(h.base)
	if addr < base || addr >= base+h.size {
		return cerrors.Wrapf(ErrInvalidPointer, "address %#x outside heap region [%#x, %#x)", addr, base, base+h.size)
	}

	blockSize := h.orderSize(order)
	if (addr-base)&(blockSize-1) != 0 {
		return cerrors.Wrapf(ErrInvalidPointer, "address %#x is not aligned to block size %d", addr, blockSize)
	}

	return nil
}
