// Package engine implements the real-time rendering core of the
// polyphonic instrument: sample-accurate event scheduling, voice
// lifecycle, per-sample synthesis at a fixed internal rate, and a
// streaming resampling pipeline to the host's output rate.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/waveforge/polysynth/pkg/dsp/oscillator"
	"github.com/waveforge/polysynth/pkg/dsp/resample"
	"github.com/waveforge/polysynth/pkg/framework/debug"
	"github.com/waveforge/polysynth/pkg/framework/param"
	"github.com/waveforge/polysynth/pkg/framework/state"
	"github.com/waveforge/polysynth/pkg/framework/voice"
)

const (
	// DefaultInternalRate is the fixed rate synthesis runs at, independent
	// of the host output rate.
	DefaultInternalRate = 16789.0

	// ParamVolume is the index of the master volume parameter.
	ParamVolume = 0

	// mixGain leaves headroom when summing voices.
	mixGain = 0.2

	// carrySlack oversizes the carry-over buffers relative to the
	// worst-case block so mid-block rounding never forces a reallocation.
	carrySlack = 1.10
)

// ErrNotActivated is returned by Process before a successful Activate.
var ErrNotActivated = errors.New("engine: not activated")

// Engine is the rendering core. Activate, Process, and Flush run on the
// render context; SaveState, LoadState, ParamValue, and SetParam may run
// concurrently on the control context.
type Engine struct {
	log      *debug.Logger
	waveFunc oscillator.WaveFunc
	waveform oscillator.Waveform

	internalRate    float64
	resampleEnabled bool

	store  *param.Store
	voices *voice.Manager
	states *state.Manager

	active     bool
	outputRate float64
	renderRate float64 // rate voice phases advance at
	maxFrames  int

	conv  *resample.Converter
	carry [2]*resample.CarryBuffer
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithWaveform selects one of the built-in waveforms.
func WithWaveform(w oscillator.Waveform) Option {
	return func(e *Engine) {
		e.waveform = w
		e.waveFunc = w.Func()
	}
}

// WithWaveFunc installs a custom wave function. The renderer calls it with
// phase*2π for every voice on every internal-rate frame.
func WithWaveFunc(fn oscillator.WaveFunc) Option {
	return func(e *Engine) {
		e.waveFunc = fn
	}
}

// WithInternalRate overrides the internal render rate.
func WithInternalRate(rate float64) Option {
	return func(e *Engine) {
		e.internalRate = rate
	}
}

// WithResampling enables or disables the resampling pipeline. When
// disabled, synthesis runs directly at the host output rate.
func WithResampling(enabled bool) Option {
	return func(e *Engine) {
		e.resampleEnabled = enabled
	}
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *debug.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine with a single Volume parameter, sine waveform, and
// resampling enabled.
func New(opts ...Option) *Engine {
	e := &Engine{
		waveform:        oscillator.WaveSine,
		waveFunc:        oscillator.Sine,
		internalRate:    DefaultInternalRate,
		resampleEnabled: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.store = param.NewStore(
		param.New(ParamVolume, "Volume").
			Range(0, 1).
			Default(0.5).
			Build(),
	)
	e.voices = voice.NewManager(e.store.Count())
	e.states = state.NewManager(e.store)

	return e
}

// Activate (re)initializes the rate converter and carry buffers for the
// given output rate and block size bounds. A failed activation retains no
// partial state; the engine stays deactivated.
func (e *Engine) Activate(outputRate float64, minFrames, maxFrames int) error {
	if outputRate <= 0 {
		return fmt.Errorf("engine: invalid output rate %g", outputRate)
	}
	if maxFrames <= 0 || minFrames < 0 || minFrames > maxFrames {
		return fmt.Errorf("engine: invalid block bounds [%d, %d]", minFrames, maxFrames)
	}

	if e.resampleEnabled {
		conv, err := resample.New(e.internalRate, outputRate, 2)
		if err != nil {
			return fmt.Errorf("engine: activate: %w", err)
		}
		conv.Reset()

		maxCarry := int(float64(maxFrames)*conv.Ratio()*carrySlack) + 16
		e.carry[0] = resample.NewCarryBuffer(maxCarry)
		e.carry[1] = resample.NewCarryBuffer(maxCarry)
		e.conv = conv
		e.renderRate = e.internalRate
	} else {
		e.conv = nil
		e.carry[0] = nil
		e.carry[1] = nil
		e.renderRate = outputRate
	}

	e.outputRate = outputRate
	e.maxFrames = maxFrames
	e.active = true

	e.log.Info("activated: output %g Hz, internal %g Hz, blocks [%d, %d], resample %v",
		outputRate, e.internalRate, minFrames, maxFrames, e.resampleEnabled)
	return nil
}

// Deactivate stops processing and drops all voices without emitting
// note-end events.
func (e *Engine) Deactivate() {
	e.active = false
	e.voices.Reset()
	if e.carry[0] != nil {
		e.carry[0].Clear()
		e.carry[1].Clear()
	}
}

// Active reports whether the engine has been activated.
func (e *Engine) Active() bool {
	return e.active
}

// InternalRate returns the fixed synthesis rate.
func (e *Engine) InternalRate() float64 {
	return e.internalRate
}

// OutputRate returns the rate of the last successful activation.
func (e *Engine) OutputRate() float64 {
	return e.outputRate
}

// Waveform returns the selected built-in waveform.
func (e *Engine) Waveform() oscillator.Waveform {
	return e.waveform
}

// NumParams returns the number of parameters.
func (e *Engine) NumParams() int {
	return e.store.Count()
}

// ParamInfo returns the description of the parameter at index.
func (e *Engine) ParamInfo(index int) (param.Info, bool) {
	return e.store.Info(index)
}

// ParamValue returns the parameter value as seen from the control context:
// a pending control-side change wins, otherwise the render-side value.
func (e *Engine) ParamValue(index int) (float64, bool) {
	return e.store.Value(index)
}

// SetParam writes a parameter value from the control context. The render
// context applies it at the start of its next Process or Flush.
func (e *Engine) SetParam(index int, value float64) error {
	info, ok := e.store.Info(index)
	if !ok {
		return fmt.Errorf("engine: no parameter at index %d", index)
	}
	e.store.SetMain(index, info.Clamp(value))
	return nil
}

// SaveState writes the control-side parameter values to w, after syncing
// any pending render-side changes.
func (e *Engine) SaveState(w io.Writer) error {
	return e.states.Save(w)
}

// LoadState replaces the control-side parameter values from r. On failure
// the previous values are kept.
func (e *Engine) LoadState(r io.Reader) error {
	return e.states.Load(r)
}

// VoiceCount returns the number of active voices, held or releasing.
// Render context only.
func (e *Engine) VoiceCount() int {
	return e.voices.Len()
}
