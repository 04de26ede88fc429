//go:build !buddyalloc_debug

package buddyalloc

import "unsafe"

// DebugMargin is 0 unless the buddyalloc_debug build tag is active; see
// debug_margin.go.
const DebugMargin = 0

func writeDebugMargin(block unsafe.Pointer, used, blockSize uintptr) {}

func checkDebugMargin(block unsafe.Pointer, used, blockSize uintptr) bool { return true }
