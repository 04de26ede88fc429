package buddyalloc

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

// Validate performs internal consistency checks on the heap's free lists
// and returns an error describing the first violation found, or nil. It
// never panics: every condition it finds is reported through the returned
// error, not asserted.
//
// This walks every free list in full and so can be expensive; it is meant
// for diagnostics and tests, not the hot allocate/free path. When the
// allocator is functioning correctly this should never return an error.
func (h *Heap) Validate() error {
	owner := make(map[unsafe.Pointer]int, h.k)

	for order := 0; order < h.k; order++ {
		node := h.lists.heads[order]
		for node != nil {
			if _, ok := owner[node]; ok {
				return cerrors.Wrapf(ErrCorruption, "address %#x is free at more than one order, or appears twice in a list", uintptr(node))
			}

			addr := uintptr(node)
			base := uintptr(h.base)
			if addr < base || addr >= base+h.size {
				return cerrors.Wrapf(ErrCorruption, "free block %#x at order %d lies outside heap region", addr, order)
			}
			blockSize := h.orderSize(order)
			if (addr-base)&(blockSize-1) != 0 {
				return cerrors.Wrapf(ErrCorruption, "free block %#x at order %d is misaligned for its block size %d", addr, order, blockSize)
			}
			owner[node] = order

			node = (*freeNode)(node).next
		}
	}

	// Second pass: no two free buddies of the same order should ever
	// coexist, since they would have been coalesced on free. This needs
	// the full owner map from above, since a block's buddy may appear
	// later in iteration order than the block itself.
	for addr, order := range owner {
		if order >= h.k-1 {
			continue
		}
		buddy := h.buddyPointer(addr, order)
		if buddyOrder, ok := owner[buddy]; ok && buddyOrder == order {
			return cerrors.Wrapf(ErrCorruption,
				"free blocks %#x and %#x at order %d should have been coalesced", uintptr(addr), uintptr(buddy), order)
		}
	}

	return nil
}
