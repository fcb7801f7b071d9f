// Package oscillator provides the waveform functions used by the voice
// renderer and the mapping from MIDI key numbers to frequencies.
package oscillator

import "math"

// WaveFunc evaluates one waveform sample at angle x, in radians. The voice
// renderer calls it with phase*2π where phase is in [0,1).
type WaveFunc func(x float64) float64

// Waveform selects one of the built-in wave functions.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Func returns the wave function for the waveform. Unknown values fall back
// to sine.
func (w Waveform) Func() WaveFunc {
	switch w {
	case WaveTriangle:
		return Triangle
	case WaveSaw:
		return Saw
	case WaveSquare:
		return Square
	default:
		return Sine
	}
}

// Sine is the sine waveform.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Triangle is a triangle wave with amplitude [-1,1] and the same period as
// Sine, phase-aligned so that Triangle(0) == 0 rising.
func Triangle(x float64) float64 {
	const (
		a = 2.0       // amplitude
		p = math.Pi   // half period
	)
	const (
		amplitudeOffset = a / 2
		phaseOffset     = -p / 2
	)
	return (a/p)*(p-math.Abs(math.Mod(x-phaseOffset, 2*p)-p)) - amplitudeOffset
}

// Saw is a rising sawtooth in [-1,1].
func Saw(x float64) float64 {
	phase := x / (2 * math.Pi)
	phase -= math.Floor(phase)
	return 2*phase - 1
}

// Square is a naive square wave in {-1,1}.
func Square(x float64) float64 {
	phase := x / (2 * math.Pi)
	phase -= math.Floor(phase)
	if phase < 0.5 {
		return 1
	}
	return -1
}

// KeyToFrequency converts a MIDI key number to its equal-temperament
// frequency, with key 57 tuned to concert A at 440 Hz.
func KeyToFrequency(key int16) float64 {
	return 440.0 * math.Exp2((float64(key)-57.0)/12.0)
}
