package engine

import (
	"fmt"
	"math"

	"github.com/waveforge/polysynth/pkg/dsp/oscillator"
	"github.com/waveforge/polysynth/pkg/event"
)

// Process renders exactly frames output frames into outL and outR,
// applying every event at the frame it targets. Events must be ordered by
// non-decreasing time in [0, frames); ties are applied in list order.
// Produced events (parameter changes, note ends) are pushed to out, which
// may be nil.
//
// On any failure the outputs are fully zeroed before the error is
// returned; nothing propagates out of the render context.
func (e *Engine) Process(frames int, in []event.Event, outL, outR []float32, out *event.Queue) (err error) {
	zero(outL)
	zero(outR)

	defer func() {
		if r := recover(); r != nil {
			zero(outL)
			zero(outR)
			e.log.Error("render failure: %v", r)
			err = fmt.Errorf("engine: render failure: %v", r)
		}
	}()

	if !e.active {
		return ErrNotActivated
	}
	if frames <= 0 || frames > e.maxFrames {
		return fmt.Errorf("engine: block of %d frames outside [1, %d]", frames, e.maxFrames)
	}
	if len(outL) < frames || len(outR) < frames {
		return fmt.Errorf("engine: output buffers too short for %d frames", frames)
	}

	e.syncMainToRender(out)
	e.runScheduler(frames, in, outL, outR)

	if e.conv != nil {
		e.resampleInto(frames, outL, outR)
	}

	e.voices.Prune(func(id event.NoteID) {
		if out != nil {
			out.Push(event.NoteEnd{NoteID: id})
		}
	})

	return nil
}

// Flush applies control-side parameter changes and consumes events without
// rendering audio. Used while the instrument is inactive.
func (e *Engine) Flush(in []event.Event, out *event.Queue) {
	e.syncMainToRender(out)
	for _, ev := range in {
		e.applyEvent(ev)
	}
}

func (e *Engine) syncMainToRender(out *event.Queue) {
	e.store.SyncMainToRender(func(index int, value float64) {
		if out != nil {
			out.Push(event.ParamValue{Index: int32(index), Value: value})
		}
	})
}

// runScheduler walks the block in time order: apply all events due at the
// current frame, then render up to the next distinct event time. When
// resampling is active the segment length is scaled into internal-rate
// frames; the rounding drift this introduces is absorbed by the carry
// buffers.
func (e *Engine) runScheduler(frames int, in []event.Event, outL, outR []float32) {
	eventIndex := 0
	nextEventFrame := frames
	if len(in) > 0 {
		nextEventFrame = 0
	}

	for currFrame := 0; currFrame < frames; {
		for eventIndex < len(in) && nextEventFrame == currFrame {
			ev := in[eventIndex]
			at := int(ev.Time())
			if at > currFrame {
				if at > frames {
					at = frames
				}
				nextEventFrame = at
				break
			}

			// Due now. Events before currFrame violate the ordering
			// contract and are applied late rather than rejected.
			e.applyEvent(ev)
			eventIndex++

			if eventIndex == len(in) {
				nextEventFrame = frames
			}
		}

		if e.conv != nil {
			n := int(math.Round(float64(nextEventFrame-currFrame) * e.conv.Ratio()))
			e.renderCarry(n)
		} else {
			e.renderInto(outL[currFrame:nextEventFrame], outR[currFrame:nextEventFrame])
		}

		currFrame = nextEventFrame
	}
}

func (e *Engine) applyEvent(ev event.Event) {
	switch ev := ev.(type) {
	case event.NoteOn:
		e.voices.NoteOn(ev.NoteID)
	case event.NoteOff:
		e.voices.Release(ev.NoteID)
	case event.NoteChoke:
		e.voices.Choke(ev.NoteID)
	case event.ParamValue:
		if !e.store.InRange(int(ev.Index)) {
			e.log.Debug("ignoring value event for unknown parameter %d", ev.Index)
			return
		}
		e.store.SetRender(int(ev.Index), ev.Value)
	case event.ParamMod:
		if !e.store.InRange(int(ev.Index)) {
			e.log.Debug("ignoring mod event for unknown parameter %d", ev.Index)
			return
		}
		e.voices.Modulate(ev.NoteID, int(ev.Index), ev.Amount)
	default:
		// Transport, note expression, and raw MIDI variants are accepted
		// but currently unhandled.
	}
}

// renderSample sums one internal-rate frame over all held voices and
// advances their phases.
func (e *Engine) renderSample() float32 {
	volume := e.store.Render(ParamVolume)

	var sum float64
	for _, v := range e.voices.Voices() {
		if !v.Held {
			continue
		}

		vol := volume + v.Offsets[ParamVolume]
		if vol < 0 {
			vol = 0
		} else if vol > 1 {
			vol = 1
		}

		sum += e.waveFunc(v.Phase*2*math.Pi) * mixGain * vol

		v.Phase += oscillator.KeyToFrequency(v.ID.Key) / e.renderRate
		v.Phase -= math.Floor(v.Phase)
	}
	return float32(sum)
}

// renderCarry appends n internal-rate frames to both carry buffers, the
// mono sum duplicated to each channel.
func (e *Engine) renderCarry(n int) {
	for frame := 0; frame < n; frame++ {
		s := e.renderSample()
		e.carry[0].Append(s)
		e.carry[1].Append(s)
	}
}

// renderInto writes frames straight into the output slices. Used when
// resampling is disabled and synthesis runs at the output rate.
func (e *Engine) renderInto(dstL, dstR []float32) {
	for i := range dstL {
		s := e.renderSample()
		dstL[i] = s
		dstR[i] = s
	}
}

// resampleInto runs the rate conversion over the carry buffers, filling
// frames output frames. Three outcomes per channel:
//
//  1. output filled, buffer fully consumed: the buffer is cleared;
//  2. output under-filled: render enough additional internal frames and
//     run a second pass from the current output offset;
//  3. buffer under-consumed: the unconsumed tail stays at the front of the
//     buffer for the next call. It is never re-rendered or discarded.
func (e *Engine) resampleInto(frames int, outL, outR []float32) {
	consumed0, produced := e.conv.Process(0, e.carry[0].Samples(), outL[:frames])
	consumed1, _ := e.conv.Process(1, e.carry[1].Samples(), outR[:frames])
	e.carry[0].DropFront(consumed0)
	e.carry[1].DropFront(consumed1)

	if produced < frames {
		remaining := frames - produced

		// The +2 covers the converter's one-frame interpolation lookahead
		// plus ceiling rounding, so a single extra pass always fills the
		// block. Unused frames stay in the carry buffers.
		e.renderCarry(e.conv.InputLen(remaining) + 2)

		c0, p0 := e.conv.Process(0, e.carry[0].Samples(), outL[produced:frames])
		c1, _ := e.conv.Process(1, e.carry[1].Samples(), outR[produced:frames])
		e.carry[0].DropFront(c0)
		e.carry[1].DropFront(c1)
		produced += p0

		if produced < frames {
			e.log.Warn("resampler under-run: %d of %d frames", produced, frames)
		}
	}
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
