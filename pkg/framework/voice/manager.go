// Package voice manages the set of sounding notes: creation on note-on,
// wildcard-matched release and choke, per-voice modulation offsets, and
// end-of-block pruning with note-end notification.
package voice

import (
	"github.com/waveforge/polysynth/pkg/event"
)

// Voice is one sounding note instance. Phase is the oscillator phase
// accumulator in [0,1), owned exclusively by the voice and advanced every
// rendered internal-rate frame.
type Voice struct {
	Held  bool
	ID    event.NoteID
	Phase float64

	// Offsets holds per-voice additive modulation, one slot per parameter,
	// applied on top of the global render-side value.
	Offsets []float64
}

// Manager owns the active voices in insertion order. All methods run on the
// render context; no locking is needed.
type Manager struct {
	voices    []*Voice
	numParams int
}

// NewManager creates a manager whose voices carry numParams modulation
// offset slots each.
func NewManager(numParams int) *Manager {
	return &Manager{
		voices:    make([]*Voice, 0, 16),
		numParams: numParams,
	}
}

// Voices returns the active voices in insertion order. The slice is owned
// by the manager; callers must not retain it across mutations.
func (m *Manager) Voices() []*Voice {
	return m.voices
}

// Len returns the number of active voices, held or releasing.
func (m *Manager) Len() int {
	return len(m.voices)
}

// NoteOn releases any voice matching id, then appends a fresh held voice
// with phase 0 and zero modulation offsets. Releasing first keeps note
// identities unique in the active set.
func (m *Manager) NoteOn(id event.NoteID) {
	m.Release(id)

	m.voices = append(m.voices, &Voice{
		Held:    true,
		ID:      id,
		Offsets: make([]float64, m.numParams),
	})
}

// Release marks every matching voice as no longer held. Released voices
// keep rendering any tail until pruned at the end of the block.
func (m *Manager) Release(id event.NoteID) {
	for _, v := range m.voices {
		if id.Matches(v.ID) {
			v.Held = false
		}
	}
}

// Choke removes every matching voice immediately, with no release tail and
// no note-end notification. Removal is index-stable: survivors are
// compacted in place so no element is skipped.
func (m *Manager) Choke(id event.NoteID) {
	kept := m.voices[:0]
	for _, v := range m.voices {
		if id.Matches(v.ID) {
			continue
		}
		kept = append(kept, v)
	}
	for i := len(kept); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = kept
}

// Modulate overwrites the per-voice offset of the given parameter on the
// first voice matching id. No-op when nothing matches or the parameter
// index is out of range.
func (m *Manager) Modulate(id event.NoteID, index int, amount float64) {
	if index < 0 || index >= m.numParams {
		return
	}
	for _, v := range m.voices {
		if id.Matches(v.ID) {
			v.Offsets[index] = amount
			return
		}
	}
}

// Prune removes every voice that is no longer held, invoking ended exactly
// once per removed voice. Called after the engine has finished rendering
// the current block.
func (m *Manager) Prune(ended func(event.NoteID)) {
	kept := m.voices[:0]
	for _, v := range m.voices {
		if v.Held {
			kept = append(kept, v)
			continue
		}
		if ended != nil {
			ended(v.ID)
		}
	}
	for i := len(kept); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = kept
}

// Reset drops all voices without emitting note-end notifications. Used on
// deactivation.
func (m *Manager) Reset() {
	for i := range m.voices {
		m.voices[i] = nil
	}
	m.voices = m.voices[:0]
}
