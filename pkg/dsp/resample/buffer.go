package resample

// CarryBuffer holds internal-rate samples that were rendered but not yet
// consumed by the converter, in append order. Capacity is fixed at
// construction so the render hot path never allocates; samples leave from
// the front in the exact order they arrived.
type CarryBuffer struct {
	samples []float32
}

// NewCarryBuffer pre-sizes the buffer for capacity samples.
func NewCarryBuffer(capacity int) *CarryBuffer {
	return &CarryBuffer{
		samples: make([]float32, 0, capacity),
	}
}

// Append adds one sample to the back.
func (b *CarryBuffer) Append(s float32) {
	b.samples = append(b.samples, s)
}

// Samples returns the buffered samples, oldest first.
func (b *CarryBuffer) Samples() []float32 {
	return b.samples
}

// Len returns the number of buffered samples.
func (b *CarryBuffer) Len() int {
	return len(b.samples)
}

// DropFront removes the n oldest samples, shifting the remainder to the
// front without reallocating.
func (b *CarryBuffer) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.samples) {
		b.samples = b.samples[:0]
		return
	}
	copy(b.samples, b.samples[n:])
	b.samples = b.samples[:len(b.samples)-n]
}

// Clear empties the buffer, keeping its capacity.
func (b *CarryBuffer) Clear() {
	b.samples = b.samples[:0]
}
