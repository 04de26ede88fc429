package buddyalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestValidateCleanHeap(t *testing.T) {
	h, _ := newTestHeap(t, 256, 5)
	require.NoError(t, h.Validate())

	block, err := h.Allocate(16, 16)
	require.NoError(t, err)
	require.NoError(t, h.Validate())
	require.NoError(t, h.Free(block, 16, 16))
	require.NoError(t, h.Validate())
}

func TestValidateDetectsUnmergedBuddies(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	// Manually split the top-order block in two and push both halves back
	// onto the order-3 list without going through Free's coalescing loop,
	// simulating bookkeeping corruption that leaves two free buddies of
	// the same order sitting side by side.
	h.lists.pop(h.k - 1)
	lower := base
	upper := unsafe.Add(base, h.orderSize(h.k-2))
	h.lists.push(h.k-2, lower)
	h.lists.push(h.k-2, upper)

	require.ErrorIs(t, h.Validate(), ErrCorruption)
}

func TestValidateDetectsDuplicateFreeEntry(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	h.lists.pop(h.k - 1)
	h.lists.push(0, base)
	h.lists.push(0, base)

	require.ErrorIs(t, h.Validate(), ErrCorruption)
}

func TestValidateDetectsOutOfBoundsFreeEntry(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	h.lists.pop(h.k - 1)
	h.lists.push(0, unsafe.Add(base, 256))

	require.ErrorIs(t, h.Validate(), ErrCorruption)
}

func TestValidateDetectsMisalignedFreeEntry(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	h.lists.pop(h.k - 1)
	h.lists.push(1, unsafe.Add(base, 16))

	require.ErrorIs(t, h.Validate(), ErrCorruption)
}
