// Package state serializes the control-side parameter values as a flat
// array of little-endian float32s, one per parameter in index order. There
// is no header or version; a byte-count mismatch is a load failure.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/waveforge/polysynth/pkg/framework/param"
)

// ErrSizeMismatch is returned by Load when the blob does not contain
// exactly one float32 per parameter.
var ErrSizeMismatch = errors.New("state: size mismatch")

// Manager handles saving and loading engine state through a param.Store.
type Manager struct {
	store *param.Store
}

// NewManager creates a state manager for the given store.
func NewManager(store *param.Store) *Manager {
	return &Manager{store: store}
}

// Save synchronizes pending render-side changes into the control view and
// writes the control-side values to w.
func (m *Manager) Save(w io.Writer) error {
	m.store.SyncRenderToMain()

	values := make([]float64, m.store.Count())
	m.store.CopyMain(values)

	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, float32(v)); err != nil {
			return fmt.Errorf("state: save: %w", err)
		}
	}
	return nil
}

// Load reads exactly one float32 per parameter from r and installs the
// values into the control view, marking every parameter dirty so the
// render context applies them on its next sync. On any failure, including
// trailing bytes after the expected payload, the store is left untouched.
func (m *Manager) Load(r io.Reader) error {
	count := m.store.Count()

	raw := make([]byte, 4*count)
	if _, err := io.ReadFull(r, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrSizeMismatch
		}
		return fmt.Errorf("state: load: %w", err)
	}

	// Exact byte-count match: trailing data means the blob wasn't written
	// by a store of this shape.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return ErrSizeMismatch
	}

	values := make([]float64, count)
	for i := range values {
		bits := binary.LittleEndian.Uint32(raw[4*i:])
		values[i] = float64(math.Float32frombits(bits))
	}

	m.store.LoadMain(values)
	return nil
}
