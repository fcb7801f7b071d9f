// Package resample converts the fixed internal-rate sample stream to the
// host's output rate. The converter is streaming: it reports how many input
// frames it consumed and how many output frames it produced, and keeps only
// fractional-position state between calls, so the caller's carry-over buffer
// owns every sample that may still be needed.
package resample

import (
	"fmt"
	"math"
)

// Converter is a stateful variable-ratio rate converter using linear
// interpolation. Each channel keeps an independent read position so the
// converted streams stay phase-aligned across calls.
type Converter struct {
	ratio float64 // input rate / output rate
	pos   []float64
}

// New creates a converter for the given rates and channel count.
func New(inputRate, outputRate float64, channels int) (*Converter, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("resample: invalid rates %g -> %g", inputRate, outputRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("resample: invalid channel count %d", channels)
	}
	return &Converter{
		ratio: inputRate / outputRate,
		pos:   make([]float64, channels),
	}, nil
}

// Ratio returns inputRate/outputRate.
func (c *Converter) Ratio() float64 {
	return c.ratio
}

// Reset clears the converter's position state. Called on (re)activation.
func (c *Converter) Reset() {
	for i := range c.pos {
		c.pos[i] = 0
	}
}

// Process converts input frames for one channel into out, returning the
// number of input frames consumed and output frames produced. consumed
// counts the leading input frames that will never be needed again; the
// caller must keep in[consumed:] for the next call. Interpolation between
// the last retained frame and newly rendered frames is what keeps the
// output stream continuous across block boundaries.
func (c *Converter) Process(ch int, in, out []float32) (consumed, produced int) {
	pos := c.pos[ch]

	for produced < len(out) {
		i := int(pos)
		if i+1 >= len(in) {
			break
		}
		frac := float32(pos - float64(i))
		out[produced] = in[i] + frac*(in[i+1]-in[i])
		produced++
		pos += c.ratio
	}

	consumed = int(pos)
	if consumed > len(in) {
		consumed = len(in)
	}
	c.pos[ch] = pos - float64(consumed)

	return consumed, produced
}

// OutputLen returns how many output frames n input frames can fill at the
// converter's ratio, ignoring position state.
func (c *Converter) OutputLen(inputFrames int) int {
	return int(float64(inputFrames) / c.ratio)
}

// InputLen returns how many input frames are needed to fill outputFrames
// output frames, rounding up.
func (c *Converter) InputLen(outputFrames int) int {
	return int(math.Ceil(float64(outputFrames) * c.ratio))
}
