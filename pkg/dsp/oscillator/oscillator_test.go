package oscillator

import (
	"math"
	"testing"
)

func TestKeyToFrequency(t *testing.T) {
	tests := []struct {
		key  int16
		freq float64
	}{
		{57, 440},
		{69, 880},
		{45, 220},
		{33, 110},
		{60, 523.2511306011972},
	}

	for _, tt := range tests {
		got := KeyToFrequency(tt.key)
		if math.Abs(got-tt.freq) > 1e-9 {
			t.Errorf("KeyToFrequency(%d) = %v, want %v", tt.key, got, tt.freq)
		}
	}

	// One octave is exactly a doubling.
	if got := KeyToFrequency(58) / KeyToFrequency(46); math.Abs(got-2) > 1e-12 {
		t.Errorf("octave ratio = %v, want 2", got)
	}
}

func TestWaveformsStayInRange(t *testing.T) {
	waves := []Waveform{WaveSine, WaveTriangle, WaveSaw, WaveSquare}
	for _, w := range waves {
		fn := w.Func()
		for i := 0; i < 1000; i++ {
			x := float64(i) / 1000 * 4 * math.Pi
			y := fn(x)
			if y < -1 || y > 1 {
				t.Errorf("%s(%v) = %v, outside [-1, 1]", w, x, y)
			}
		}
	}
}

func TestTrianglePhaseAlignment(t *testing.T) {
	// The triangle shares the sine's zero crossings and peak positions.
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{math.Pi / 2, 1},
		{math.Pi, 0},
		{3 * math.Pi / 2, -1},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		if got := Triangle(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Triangle(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSquareAndSaw(t *testing.T) {
	if got := Square(0); got != 1 {
		t.Errorf("Square(0) = %v, want 1", got)
	}
	if got := Square(math.Pi); got != -1 {
		t.Errorf("Square(pi) = %v, want -1", got)
	}
	if got := Saw(0); got != -1 {
		t.Errorf("Saw(0) = %v, want -1", got)
	}
	if got := Saw(math.Pi); math.Abs(got) > 1e-12 {
		t.Errorf("Saw(pi) = %v, want 0", got)
	}
}

func TestWaveformFuncFallback(t *testing.T) {
	fn := Waveform(99).Func()
	if got := fn(math.Pi / 2); math.Abs(got-1) > 1e-12 {
		t.Errorf("unknown waveform should fall back to sine, got %v at pi/2", got)
	}
	if Waveform(99).String() != "unknown" {
		t.Errorf("unexpected name for unknown waveform: %s", Waveform(99))
	}
}
