package buddyalloc

import "unsafe"

// freeNode is the header threaded through a free block. It occupies the
// first pointerSize bytes of the block; the rest of the block is untouched.
// Nothing outside this package ever dereferences a freeNode, and the core
// never touches this header once a block has been handed to a caller.
type freeNode struct {
	next unsafe.Pointer
}

// freeListSet holds one intrusive singly-linked free list per order. heads
// is indexed by order; a nil head means that order's list is empty. A block
// address of zero never appears as a legitimate head value because Go never
// hands out an unsafe.Pointer with address zero into caller-supplied memory,
// so nil is an unambiguous empty sentinel without the null-pointer-vs-
// valid-zero-offset ambiguity the original C/Rust implementations have to
// reason about.
type freeListSet struct {
	heads []unsafe.Pointer
}

// push threads block onto the front of order's free list. O(1).
func (f *freeListSet) push(order int, block unsafe.Pointer) {
	node := (*freeNode)(block)
	node.next = f.heads[order]
	f.heads[order] = block
}

// pop removes and returns the block at the front of order's free list, or
// nil if the list is empty. O(1).
func (f *freeListSet) pop(order int) unsafe.Pointer {
	head := f.heads[order]
	if head == nil {
		return nil
	}
	f.heads[order] = (*freeNode)(head).next
	return head
}

// remove unlinks block from order's free list if present, reporting whether
// it was found. This is the slowest primitive in the allocator, running in
// O(length of the list at this order), because the list is singly linked
// and we don't want to pay for a prev pointer in every free block just to
// make this operation O(1).
func (f *freeListSet) remove(order int, block unsafe.Pointer) bool {
	cur := &f.heads[order]
	for *cur != nil {
		if *cur == block {
			*cur = (*freeNode)(*cur).next
			return true
		}
		cur = &(*freeNode)(*cur).next
	}
	return false
}

// isEmpty reports whether order's free list has no blocks.
func (f *freeListSet) isEmpty(order int) bool {
	return f.heads[order] == nil
}
