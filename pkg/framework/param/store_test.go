package param

import (
	"testing"
)

func testStore() *Store {
	return NewStore(
		New(0, "Volume").Range(0, 1).Default(0.5).Build(),
		New(1, "Cutoff").Range(20, 20000).Default(1000).Build(),
	)
}

func TestStoreDefaults(t *testing.T) {
	s := testStore()

	if s.Count() != 2 {
		t.Fatalf("expected 2 parameters, got %d", s.Count())
	}

	v, ok := s.Value(0)
	if !ok || v != 0.5 {
		t.Errorf("Value(0) = %v, %v; want 0.5, true", v, ok)
	}
	if got := s.Render(1); got != 1000 {
		t.Errorf("Render(1) = %v, want 1000", got)
	}
	if _, ok := s.Value(2); ok {
		t.Error("Value(2) should report out of range")
	}
}

func TestStoreSyncMainToRender(t *testing.T) {
	s := testStore()
	s.SetMain(0, 0.8)

	var applied []int
	s.SyncMainToRender(func(index int, value float64) {
		applied = append(applied, index)
		if value != 0.8 {
			t.Errorf("applied value = %v, want 0.8", value)
		}
	})

	if len(applied) != 1 || applied[0] != 0 {
		t.Fatalf("expected apply for parameter 0 only, got %v", applied)
	}
	if got := s.Render(0); got != 0.8 {
		t.Errorf("Render(0) = %v after sync, want 0.8", got)
	}

	// Flags were cleared: a second sync applies nothing.
	s.SyncMainToRender(func(index int, value float64) {
		t.Errorf("unexpected re-apply of parameter %d", index)
	})
}

func TestStoreSyncRenderToMain(t *testing.T) {
	s := testStore()

	if s.SyncRenderToMain() {
		t.Error("sync with no dirty values should report no change")
	}

	s.SetRender(1, 440)
	if !s.SyncRenderToMain() {
		t.Error("sync after a render write should report a change")
	}

	v, _ := s.Value(1)
	if v != 440 {
		t.Errorf("Value(1) = %v after sync, want 440", v)
	}

	if s.SyncRenderToMain() {
		t.Error("second sync should report no change")
	}
}

func TestStoreValuePrefersPendingMainWrite(t *testing.T) {
	s := testStore()
	s.SetRender(0, 0.3)
	s.SetMain(0, 0.9)

	// The control-side write has not been synced yet but is authoritative
	// for control-side reads.
	v, _ := s.Value(0)
	if v != 0.9 {
		t.Errorf("Value(0) = %v with pending main write, want 0.9", v)
	}

	// The read itself must not consume the dirty flag.
	var applied bool
	s.SyncMainToRender(func(index int, value float64) { applied = true })
	if !applied {
		t.Error("pending main write was lost after Value read")
	}
}

func TestStoreLoadMainMarksAllDirty(t *testing.T) {
	s := testStore()
	s.LoadMain([]float64{0.25, 5000})

	var count int
	s.SyncMainToRender(func(index int, value float64) { count++ })
	if count != 2 {
		t.Errorf("expected every parameter re-applied after load, got %d", count)
	}
	if got := s.Render(1); got != 5000 {
		t.Errorf("Render(1) = %v after load and sync, want 5000", got)
	}
}

func TestStoreCopyMain(t *testing.T) {
	s := testStore()
	s.SetMain(0, 0.75)

	dst := make([]float64, s.Count())
	s.CopyMain(dst)
	if dst[0] != 0.75 || dst[1] != 1000 {
		t.Errorf("CopyMain = %v, want [0.75 1000]", dst)
	}
}

func TestInfoClamp(t *testing.T) {
	info := New(0, "Volume").Range(0, 1).Build()

	if got := info.Clamp(1.5); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := info.Clamp(-0.1); got != 0 {
		t.Errorf("Clamp(-0.1) = %v, want 0", got)
	}
	if got := info.Clamp(0.4); got != 0.4 {
		t.Errorf("Clamp(0.4) = %v, want 0.4", got)
	}
}
