package buddyalloc

import "github.com/pkg/errors"

// Construction errors, returned from New.
var (
	// ErrNullBase is returned when the base address supplied to New is nil.
	ErrNullBase = errors.New("buddyalloc: heap base address must not be nil")
	// ErrHeapMisaligned is returned when the base address is not aligned to
	// the heap size.
	ErrHeapMisaligned = errors.New("buddyalloc: heap base address is not aligned to heap size")
	// ErrHeapSizeNotPowerOfTwo is returned when the requested heap size is
	// not a power of two.
	ErrHeapSizeNotPowerOfTwo = errors.New("buddyalloc: heap size must be a power of two")
	// ErrHeapTooSmall is returned when the heap, divided into the requested
	// number of orders, would produce a minimum block size too small to
	// hold a single free-list link pointer.
	ErrHeapTooSmall = errors.New("buddyalloc: heap is too small for the requested number of orders")
	// ErrInvalidOrderCount is returned when the requested number of orders
	// is negative. An Options.Orders of zero selects DefaultOrders instead.
	ErrInvalidOrderCount = errors.New("buddyalloc: order count must be at least 1")
)

// Allocate and Free errors.
var (
	// ErrInvalidAlignment is returned when the requested alignment is zero
	// or not a power of two.
	ErrInvalidAlignment = errors.New("buddyalloc: alignment must be a power of two")
	// ErrAllocationTooLarge is returned when the requested size and
	// alignment cannot be satisfied by any block the heap could ever
	// produce, because it exceeds the size of the entire region.
	ErrAllocationTooLarge = errors.New("buddyalloc: requested allocation exceeds heap capacity")
	// ErrOutOfMemory is returned from Allocate when a block of sufficient
	// order exists in principle but none is currently free.
	ErrOutOfMemory = errors.New("buddyalloc: heap exhausted")
	// ErrInvalidPointer is returned from Free when the pointer does not lie
	// inside the heap region, or is not aligned to the block size implied
	// by the size and alignment arguments.
	ErrInvalidPointer = errors.New("buddyalloc: pointer is not a valid allocation from this heap")
)

// ErrCorruption indicates that the free-list bookkeeping for a Heap violates
// an invariant it cannot have violated short of memory corruption (a stray
// write through a dangling pointer, a double free, or similar). It is
// returned rather than panicking, per this package's no-panic policy, but
// callers should treat it as fatal to the heap instance.
var ErrCorruption = errors.New("buddyalloc: heap bookkeeping is corrupt")
