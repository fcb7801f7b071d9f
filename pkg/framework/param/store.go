package param

import "sync"

// Store keeps two copies of every parameter value: one owned by the render
// context (audio thread) and one owned by the control context (main thread).
// Each side marks its writes with a dirty flag; synchronization copies
// dirty values to the clean side and clears the flag. The mutex is scoped
// to the flag-check/copy steps and is never held across rendering or I/O.
//
// Render-side reads (Render) take no lock: the render values are only ever
// written on the render context, and cross-context reads go through Value,
// which does lock.
type Store struct {
	mu sync.Mutex

	infos []Info

	render        []float64
	renderChanged []bool

	main        []float64
	mainChanged []bool
}

// NewStore creates a store with both views initialized to each parameter's
// default value and all dirty flags clear.
func NewStore(infos ...Info) *Store {
	s := &Store{
		infos:         infos,
		render:        make([]float64, len(infos)),
		renderChanged: make([]bool, len(infos)),
		main:          make([]float64, len(infos)),
		mainChanged:   make([]bool, len(infos)),
	}
	for i, info := range infos {
		s.render[i] = info.DefaultValue
		s.main[i] = info.DefaultValue
	}
	return s
}

// Count returns the number of parameters.
func (s *Store) Count() int {
	return len(s.infos)
}

// Info returns the description of the parameter at index.
func (s *Store) Info(index int) (Info, bool) {
	if index < 0 || index >= len(s.infos) {
		return Info{}, false
	}
	return s.infos[index], true
}

// InRange reports whether index refers to an existing parameter.
func (s *Store) InRange(index int) bool {
	return index >= 0 && index < len(s.infos)
}

// SetRender stores a value into the render-side view and marks it dirty.
// Called from the render context when a parameter-value event arrives.
func (s *Store) SetRender(index int, value float64) {
	if !s.InRange(index) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.render[index] = value
	s.renderChanged[index] = true
}

// SetMain stores a value into the control-side view and marks it dirty.
// The render context picks it up on the next SyncMainToRender.
func (s *Store) SetMain(index int, value float64) {
	if !s.InRange(index) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.main[index] = value
	s.mainChanged[index] = true
}

// Render returns the render-side value. Only safe on the render context.
func (s *Store) Render(index int) float64 {
	return s.render[index]
}

// Value returns the parameter value as seen from the control context.
// A pending (dirty) control-side write is authoritative since it is about
// to be applied; otherwise the render-side value is returned. Never
// mutates either view.
func (s *Store) Value(index int) (float64, bool) {
	if !s.InRange(index) {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mainChanged[index] {
		return s.main[index], true
	}
	return s.render[index], true
}

// SyncMainToRender copies every dirty control-side value into the render
// view, clears the flags, and invokes apply once per changed parameter.
// Run once at the start of each processing call and each flush.
func (s *Store) SyncMainToRender(apply func(index int, value float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.infos {
		if !s.mainChanged[i] {
			continue
		}
		s.render[i] = s.main[i]
		s.mainChanged[i] = false

		if apply != nil {
			apply(i, s.render[i])
		}
	}
}

// SyncRenderToMain copies every dirty render-side value into the control
// view and clears the flags. Returns whether anything changed. Run before
// any control-plane read of the full parameter set, e.g. saving state.
func (s *Store) SyncRenderToMain() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	anyChanged := false
	for i := range s.infos {
		if !s.renderChanged[i] {
			continue
		}
		s.main[i] = s.render[i]
		s.renderChanged[i] = false
		anyChanged = true
	}
	return anyChanged
}

// CopyMain snapshots the control-side values into dst, which must have
// Count elements.
func (s *Store) CopyMain(dst []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(dst, s.main)
}

// LoadMain replaces all control-side values and marks every parameter
// dirty so the render context applies them on its next sync. src must
// have Count elements.
func (s *Store) LoadMain(src []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.main, src)
	for i := range s.mainChanged {
		s.mainChanged[i] = true
	}
}
