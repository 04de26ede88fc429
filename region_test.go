package buddyalloc

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, size uintptr, orders int) (*Heap, unsafe.Pointer) {
	t.Helper()
	buf := make([]byte, int(size)*2)
	t.Cleanup(func() { runtime.KeepAlive(buf) })

	base := unsafe.Pointer(&buf[0])
	offset := uintptr(base) & (size - 1)
	if offset != 0 {
		base = unsafe.Add(base, size-offset)
	}

	h, err := New(base, size, Options{Orders: orders})
	require.NoError(t, err)
	return h, base
}

func TestOrderForRequest(t *testing.T) {
	// 256 bytes, K=5 => min block size 16.
	h, _ := newTestHeap(t, 256, 5)

	cases := []struct {
		size, align uintptr
		wantOrder   int
		wantErr     error
	}{
		{0, 1, 0, nil},
		{1, 1, 0, nil},
		{16, 16, 0, nil},
		{17, 1, 1, nil},
		{32, 32, 1, nil},
		{64, 64, 2, nil},
		{128, 128, 3, nil},
		{256, 256, 4, nil},
		{512, 512, 0, ErrAllocationTooLarge},
		{16, 64, 2, nil}, // alignment larger than size promotes the order
	}

	for _, tc := range cases {
		order, err := h.orderForRequest(tc.size, uint(tc.align))
		if tc.wantErr != nil {
			require.ErrorIs(t, err, tc.wantErr)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.wantOrder, order)
	}
}

func TestOrderForRequestBadAlignment(t *testing.T) {
	h, _ := newTestHeap(t, 256, 5)

	_, err := h.orderForRequest(16, 0)
	require.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = h.orderForRequest(16, 3)
	require.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestBuddyPointer(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	block16x0 := base
	block16x1 := unsafe.Add(base, 16)
	require.Equal(t, block16x1, h.buddyPointer(block16x0, 0))
	require.Equal(t, block16x0, h.buddyPointer(block16x1, 0))

	block32x0 := base
	block32x1 := unsafe.Add(base, 32)
	require.Equal(t, block32x1, h.buddyPointer(block32x0, 1))
	require.Equal(t, block32x0, h.buddyPointer(block32x1, 1))

	block32x2 := unsafe.Add(base, 64)
	block32x3 := unsafe.Add(base, 96)
	require.Equal(t, block32x3, h.buddyPointer(block32x2, 1))
	require.Equal(t, block32x2, h.buddyPointer(block32x3, 1))
}

func TestValidatePointer(t *testing.T) {
	h, base := newTestHeap(t, 256, 5)

	require.NoError(t, h.validatePointer(base, 0))
	require.ErrorIs(t, h.validatePointer(nil, 0), ErrInvalidPointer)
	require.ErrorIs(t, h.validatePointer(unsafe.Add(base, 1), 0), ErrInvalidPointer)
	require.ErrorIs(t, h.validatePointer(unsafe.Add(base, 256), 0), ErrInvalidPointer)
}
