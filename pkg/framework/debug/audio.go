package debug

import (
	"fmt"
	"math"
)

// BlockStats summarizes one rendered audio buffer for inspection from the
// control context.
type BlockStats struct {
	Peak     float32
	RMS      float32
	NaNCount int
	Silent   bool
}

// AnalyzeBlock computes peak, RMS, and NaN statistics for a buffer.
func AnalyzeBlock(buffer []float32) BlockStats {
	var stats BlockStats
	if len(buffer) == 0 {
		stats.Silent = true
		return stats
	}

	var sumSquares float64
	for _, sample := range buffer {
		if math.IsNaN(float64(sample)) {
			stats.NaNCount++
			continue
		}
		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > stats.Peak {
			stats.Peak = abs
		}
		sumSquares += float64(sample) * float64(sample)
	}

	stats.RMS = float32(math.Sqrt(sumSquares / float64(len(buffer))))
	stats.Silent = stats.Peak < 1e-4
	return stats
}

func (s BlockStats) String() string {
	return fmt.Sprintf("peak=%.4f rms=%.4f silent=%v nan=%d", s.Peak, s.RMS, s.Silent, s.NaNCount)
}
