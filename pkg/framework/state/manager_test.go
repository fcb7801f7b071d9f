package state

import (
	"bytes"
	"errors"
	"testing"

	"github.com/waveforge/polysynth/pkg/framework/param"
)

func testStore() *param.Store {
	return param.NewStore(
		param.New(0, "Volume").Range(0, 1).Default(0.5).Build(),
		param.New(1, "Pan").Range(-1, 1).Default(0).Build(),
	)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := testStore()
	store.SetMain(0, 0.75)
	store.SetMain(1, -0.5)

	var buf bytes.Buffer
	if err := NewManager(store).Save(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 8 {
		t.Fatalf("blob size = %d, want 8 (2 float32s)", buf.Len())
	}

	restored := testStore()
	if err := NewManager(restored).Load(&buf); err != nil {
		t.Fatal(err)
	}

	if v, _ := restored.Value(0); v != 0.75 {
		t.Errorf("Value(0) = %v after load, want 0.75", v)
	}
	if v, _ := restored.Value(1); v != -0.5 {
		t.Errorf("Value(1) = %v after load, want -0.5", v)
	}

	// Loaded values are pending for the render context.
	var count int
	restored.SyncMainToRender(func(int, float64) { count++ })
	if count != 2 {
		t.Errorf("expected every parameter pending after load, got %d", count)
	}
}

func TestSaveIncludesPendingRenderChanges(t *testing.T) {
	store := testStore()
	store.SetRender(0, 0.9)

	var buf bytes.Buffer
	if err := NewManager(store).Save(&buf); err != nil {
		t.Fatal(err)
	}

	restored := testStore()
	if err := NewManager(restored).Load(&buf); err != nil {
		t.Fatal(err)
	}
	if v, _ := restored.Value(0); float32(v) != 0.9 {
		t.Errorf("Value(0) = %v, want the render-side 0.9", v)
	}
}

func TestLoadRejectsShortBlob(t *testing.T) {
	store := testStore()
	err := NewManager(store).Load(bytes.NewReader(make([]byte, 7)))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}

	// The store keeps its previous values on failure.
	if v, _ := store.Value(0); v != 0.5 {
		t.Errorf("Value(0) = %v after failed load, want default 0.5", v)
	}
	store.SyncMainToRender(func(index int, _ float64) {
		t.Errorf("failed load must not mark parameter %d dirty", index)
	})
}

func TestLoadRejectsTrailingBytes(t *testing.T) {
	store := testStore()
	err := NewManager(store).Load(bytes.NewReader(make([]byte, 9)))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
	if v, _ := store.Value(0); v != 0.5 {
		t.Errorf("Value(0) = %v after failed load, want default 0.5", v)
	}
}

func TestLoadRejectsEmptyBlob(t *testing.T) {
	err := NewManager(testStore()).Load(bytes.NewReader(nil))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
}
