package buddyalloc

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics summarizes the occupancy of a Heap. The core does not track
// outstanding allocations for leak detection, so UsedBytes is derived as
// TotalBytes-FreeBytes rather than being an independently tracked
// allocation count.
type Statistics struct {
	TotalBytes      int
	FreeBytes       int
	UsedBytes       int
	FreeRegionCount int
}

// DetailedStatistics extends Statistics with the size range of free
// regions, mirroring memutils.DetailedStatistics's shape.
type DetailedStatistics struct {
	Statistics
	FreeRegionSizeMin int
	FreeRegionSizeMax int
}

// Stats returns a summary of this heap's current occupancy.
func (h *Heap) Stats() Statistics {
	var s Statistics
	s.TotalBytes = int(h.size)
	for order := 0; order < h.k; order++ {
		blockSize := int(h.orderSize(order))
		node := h.lists.heads[order]
		for node != nil {
			s.FreeBytes += blockSize
			s.FreeRegionCount++
			node = (*freeNode)(node).next
		}
	}
	s.UsedBytes = s.TotalBytes - s.FreeBytes
	return s
}

// DetailedStats returns Stats() plus the minimum and maximum free-region
// sizes currently on the heap's free lists.
func (h *Heap) DetailedStats() DetailedStatistics {
	var d DetailedStatistics
	d.FreeRegionSizeMin = math.MaxInt
	d.FreeRegionSizeMax = 0

	for order := 0; order < h.k; order++ {
		blockSize := int(h.orderSize(order))
		node := h.lists.heads[order]
		for node != nil {
			d.FreeBytes += blockSize
			d.FreeRegionCount++
			if blockSize < d.FreeRegionSizeMin {
				d.FreeRegionSizeMin = blockSize
			}
			if blockSize > d.FreeRegionSizeMax {
				d.FreeRegionSizeMax = blockSize
			}
			node = (*freeNode)(node).next
		}
	}

	d.TotalBytes = int(h.size)
	d.UsedBytes = d.TotalBytes - d.FreeBytes
	if d.FreeRegionCount == 0 {
		d.FreeRegionSizeMin = 0
	}
	return d
}

// WriteStatsJSON writes a diagnostic JSON snapshot of the heap's free-list
// occupancy, broken down per order, to writer. Uses the jwriter.Writer /
// ObjectState streaming pattern to avoid pulling in encoding/json
// reflection for a fixed, known shape.
func (h *Heap) WriteStatsJSON(writer *jwriter.Writer) {
	stats := h.DetailedStats()

	obj := writer.Object()
	defer obj.End()

	obj.Name("TotalBytes").Int(stats.TotalBytes)
	obj.Name("FreeBytes").Int(stats.FreeBytes)
	obj.Name("UsedBytes").Int(stats.UsedBytes)
	obj.Name("FreeRegions").Int(stats.FreeRegionCount)
	obj.Name("FreeRegionSizeMin").Int(stats.FreeRegionSizeMin)
	obj.Name("FreeRegionSizeMax").Int(stats.FreeRegionSizeMax)

	ordersArray := obj.Name("Orders").Array()
	defer ordersArray.End()

	for order := 0; order < h.k; order++ {
		blockSize := int(h.orderSize(order))
		count := 0
		node := h.lists.heads[order]
		for node != nil {
			count++
			node = (*freeNode)(node).next
		}

		orderObj := ordersArray.Object()
		orderObj.Name("Order").Int(order)
		orderObj.Name("BlockSize").Int(blockSize)
		orderObj.Name("FreeCount").Int(count)
		orderObj.End()
	}
}
