package buddyalloc

import "golang.org/x/exp/slog"

// DefaultOrders is the number of free-list orders a Heap is constructed
// with when Options.Orders is left at zero. It supports blocks from the
// minimum block size up to MinBlockSize * 2^15, a reasonable default for
// a general-purpose embedded heap.
const DefaultOrders = 16

// Options bundles the optional construction parameters for a Heap, mirroring
// the options-struct pattern used by memory/allocator.CreateOptions rather
// than a long positional argument list.
type Options struct {
	// Orders is the number of free-list order levels. Order 0 is the
	// minimum block size; order Orders-1 is the entire region. Zero means
	// DefaultOrders.
	Orders int

	// Logger, if non-nil, receives diagnostic output from Allocate and
	// Free. A Heap remains usable in an environment with no
	// logging facility at all when this is left nil.
	Logger *slog.Logger
}

func (o Options) orders() int {
	if o.Orders == 0 {
		return DefaultOrders
	}
	return o.Orders
}
