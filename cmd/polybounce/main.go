// Command polybounce renders notes offline at the engine's internal rate
// and bounces them to a WAV file at a target rate, using a high-quality
// one-shot resampler instead of the engine's realtime pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	resampler "github.com/tphakala/go-audio-resampler"
	wav "github.com/youpy/go-wav"

	"github.com/waveforge/polysynth/pkg/dsp/oscillator"
	"github.com/waveforge/polysynth/pkg/event"
	"github.com/waveforge/polysynth/pkg/framework/engine"
)

const renderBlock = 1024

func main() {
	var (
		out      = flag.String("o", "bounce.wav", "output WAV file")
		rate     = flag.Int("rate", 44100, "output sample rate in Hz")
		dur      = flag.Float64("dur", 2.0, "duration in seconds")
		keys     = flag.String("keys", "57", "comma-separated MIDI key numbers")
		wave     = flag.String("wave", "sine", "waveform: sine, triangle, saw, square")
		vol      = flag.Float64("vol", 0.5, "volume, 0..1")
		quality  = flag.String("quality", "high", "resampling quality: quick, low, medium, high, veryhigh")
		internal = flag.Float64("internal", engine.DefaultInternalRate, "internal render rate in Hz")
	)
	flag.Parse()

	if err := run(*out, *rate, *dur, *keys, *wave, *vol, *quality, *internal); err != nil {
		fmt.Fprintln(os.Stderr, "polybounce:", err)
		os.Exit(1)
	}
}

func run(out string, rate int, dur float64, keys, wave string, vol float64, quality string, internal float64) error {
	waveform, err := parseWaveform(wave)
	if err != nil {
		return err
	}
	q, err := parseQuality(quality)
	if err != nil {
		return err
	}
	noteIDs, err := parseKeys(keys)
	if err != nil {
		return err
	}
	if dur <= 0 {
		return fmt.Errorf("invalid duration %g", dur)
	}

	// Render at the internal rate with the realtime pipeline disabled;
	// the offline resampler below does the rate conversion in one shot.
	eng := engine.New(
		engine.WithWaveform(waveform),
		engine.WithInternalRate(internal),
		engine.WithResampling(false),
	)
	if err := eng.Activate(internal, renderBlock, renderBlock); err != nil {
		return err
	}
	if err := eng.SetParam(engine.ParamVolume, vol); err != nil {
		return err
	}

	totalFrames := int(dur * internal)
	left := make([]float32, 0, totalFrames)
	right := make([]float32, 0, totalFrames)

	outL := make([]float32, renderBlock)
	outR := make([]float32, renderBlock)

	events := make([]event.Event, 0, len(noteIDs))
	for _, id := range noteIDs {
		events = append(events, event.NoteOn{NoteID: id})
	}

	for rendered := 0; rendered < totalFrames; rendered += renderBlock {
		n := totalFrames - rendered
		if n > renderBlock {
			n = renderBlock
		}
		if err := eng.Process(n, events, outL[:n], outR[:n], nil); err != nil {
			return err
		}
		events = nil

		left = append(left, outL[:n]...)
		right = append(right, outR[:n]...)
	}

	leftOut, rightOut, err := resampler.ResampleStereoFloat32(left, right, float64(int(internal)), float64(rate), q)
	if err != nil {
		return fmt.Errorf("resample: %w", err)
	}

	if err := writeWAV(out, leftOut, rightOut, rate); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d frames at %d Hz\n", out, len(leftOut), rate)
	return nil
}

func parseWaveform(name string) (oscillator.Waveform, error) {
	switch strings.ToLower(name) {
	case "sine":
		return oscillator.WaveSine, nil
	case "triangle":
		return oscillator.WaveTriangle, nil
	case "saw":
		return oscillator.WaveSaw, nil
	case "square":
		return oscillator.WaveSquare, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q", name)
	}
}

func parseQuality(name string) (resampler.QualityPreset, error) {
	switch strings.ToLower(name) {
	case "quick":
		return resampler.QualityQuick, nil
	case "low":
		return resampler.QualityLow, nil
	case "medium":
		return resampler.QualityMedium, nil
	case "high":
		return resampler.QualityHigh, nil
	case "veryhigh":
		return resampler.QualityVeryHigh, nil
	default:
		return 0, fmt.Errorf("unknown quality %q", name)
	}
}

func parseKeys(s string) ([]event.NoteID, error) {
	parts := strings.Split(s, ",")
	ids := make([]event.NoteID, 0, len(parts))
	for _, part := range parts {
		key, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || key < 0 || key > 127 {
			return nil, fmt.Errorf("invalid key %q", part)
		}
		ids = append(ids, event.NoteID{NoteID: event.Any, Channel: 0, Key: int16(key)})
	}
	return ids, nil
}

func writeWAV(path string, left, right []float32, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frames := len(left)
	if len(right) < frames {
		frames = len(right)
	}

	w := wav.NewWriter(f, uint32(frames), 2, uint32(rate), 16)

	samples := make([]wav.Sample, frames)
	for i := range samples {
		samples[i].Values[0] = toPCM16(left[i])
		samples[i].Values[1] = toPCM16(right[i])
	}
	return w.WriteSamples(samples)
}

func toPCM16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(s * 32767)
}
