// Package buddyalloc implements a binary buddy memory allocator over a
// single contiguous region of memory supplied by the caller.
//
// The allocator splits the region into a power-of-two tree of blocks. Free
// blocks are threaded onto per-order free lists using intrusive link
// pointers stored inside the free memory itself, so the allocator needs no
// heap of its own: every byte it touches for bookkeeping belongs to the
// region it was constructed with. This makes it suitable for bare-metal and
// freestanding environments with no underlying dynamic memory facility.
//
// The core is strictly single-threaded and non-reentrant. Callers that need
// concurrent access must serialize calls to a Heap externally; this package
// does not provide a lock.
package buddyalloc
