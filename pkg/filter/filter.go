// Package filter provides the moving-average filter used to smooth raw ADC
// readings before unit conversion.
package filter

// DefaultSize is the window size used when none is configured.
const DefaultSize = 10

// Ring is a fixed-capacity circular buffer of raw sensor counts. All slots
// start at zero, so the first Size-1 averages after startup are biased toward
// zero. That warm-up behavior is intentional.
type Ring struct {
	slots  []uint16
	cursor int
}

// New creates a Ring with the given window size.
func New(size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{
		slots: make([]uint16, size),
	}
}

// Add writes a sample at the current cursor position, overwriting the oldest
// entry, and advances the cursor.
func (r *Ring) Add(v uint16) {
	r.slots[r.cursor] = v
	r.cursor = (r.cursor + 1) % len(r.slots)
}

// Average returns the integer-truncated mean over all slots, including any
// zero-initialized slots that have not been written yet.
func (r *Ring) Average() uint16 {
	var sum uint32
	for _, v := range r.slots {
		sum += uint32(v)
	}
	return uint16(sum / uint32(len(r.slots)))
}

// Size returns the window size.
func (r *Ring) Size() int {
	return len(r.slots)
}
