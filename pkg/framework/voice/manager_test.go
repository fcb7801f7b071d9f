package voice

import (
	"testing"

	"github.com/waveforge/polysynth/pkg/event"
)

func note(noteID int32, channel, key int16) event.NoteID {
	return event.NoteID{NoteID: noteID, Channel: channel, Key: key}
}

func TestNoteOnKeepsIdentityUnique(t *testing.T) {
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(1, 0, 60))

	// The first instance is released, not removed: it keeps ringing out
	// until the prune, but only one held voice carries the identity.
	if m.Len() != 2 {
		t.Fatalf("expected 2 voices after re-trigger, got %d", m.Len())
	}

	var held int
	for _, v := range m.Voices() {
		if v.Held {
			held++
		}
	}
	if held != 1 {
		t.Errorf("expected exactly 1 held voice, got %d", held)
	}

	fresh := m.Voices()[1]
	if !fresh.Held || fresh.Phase != 0 {
		t.Error("fresh voice should be held with phase 0")
	}
}

func TestNoteOnRetriggerReplacesOldVoice(t *testing.T) {
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.Voices()[0].Phase = 0.5
	m.NoteOn(note(1, 0, 60))

	// The prior instance is released and goes away on the next prune; the
	// fresh one survives.
	var ended int
	m.Prune(func(event.NoteID) { ended++ })
	if ended != 1 {
		t.Errorf("expected 1 ended voice, got %d", ended)
	}
	if m.Len() != 1 || m.Voices()[0].Phase != 0 {
		t.Error("fresh voice should survive the prune with phase 0")
	}
}

func TestReleaseWildcards(t *testing.T) {
	tests := []struct {
		name     string
		target   event.NoteID
		released []bool // per voice, in setup order
	}{
		{"exact", note(1, 0, 60), []bool{true, false, false}},
		{"wildcard id same channel and key", note(event.Any, 5, 60), []bool{false, false, true}},
		{"wildcard everything", note(event.Any, event.Any, event.Any), []bool{true, true, true}},
		{"no match", note(9, 9, 99), []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(1)
			m.NoteOn(note(1, 0, 60))
			m.NoteOn(note(2, 0, 62))
			m.NoteOn(note(3, 5, 60))

			m.Release(tt.target)

			for i, v := range m.Voices() {
				if v.Held == tt.released[i] {
					t.Errorf("voice %d: held = %v, want %v", i, v.Held, !tt.released[i])
				}
			}
		})
	}
}

func TestChokeRemovesImmediately(t *testing.T) {
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(2, 0, 62))
	m.NoteOn(note(3, 0, 60))

	m.Choke(note(event.Any, 0, 60))

	if m.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", m.Len())
	}
	if m.Voices()[0].ID.Key != 62 {
		t.Errorf("survivor key = %d, want 62", m.Voices()[0].ID.Key)
	}

	// Choked voices never produce an end notification.
	m.Prune(func(id event.NoteID) {
		t.Errorf("unexpected end notification for %v", id)
	})
}

func TestChokeAdjacentMatches(t *testing.T) {
	// Adjacent matching voices must both go; a removal that skips the
	// element after a removed one would leave the second behind.
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(2, 0, 60))

	m.Choke(note(event.Any, 0, 60))
	if m.Len() != 0 {
		t.Errorf("expected all matching voices choked, %d remain", m.Len())
	}
}

func TestModulateFirstMatchOnly(t *testing.T) {
	m := NewManager(2)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(2, 0, 60))

	m.Modulate(note(event.Any, 0, 60), 1, 0.3)

	if got := m.Voices()[0].Offsets[1]; got != 0.3 {
		t.Errorf("first match offset = %v, want 0.3", got)
	}
	if got := m.Voices()[1].Offsets[1]; got != 0 {
		t.Errorf("second match offset = %v, want untouched 0", got)
	}

	// Out-of-range parameter index is ignored.
	m.Modulate(note(event.Any, 0, 60), 5, 1.0)
}

func TestPruneEmitsOncePerVoice(t *testing.T) {
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(2, 0, 62))
	m.NoteOn(note(3, 0, 64))

	m.Release(note(1, 0, 60))
	m.Release(note(3, 0, 64))

	var ended []int16
	m.Prune(func(id event.NoteID) { ended = append(ended, id.Key) })

	if len(ended) != 2 || ended[0] != 60 || ended[1] != 64 {
		t.Errorf("ended keys = %v, want [60 64]", ended)
	}
	if m.Len() != 1 || m.Voices()[0].ID.Key != 62 {
		t.Error("held voice should survive the prune")
	}

	// Nothing left to prune.
	m.Prune(func(id event.NoteID) {
		t.Errorf("unexpected second notification for %v", id)
	})
}

func TestReset(t *testing.T) {
	m := NewManager(1)
	m.NoteOn(note(1, 0, 60))
	m.NoteOn(note(2, 0, 62))

	m.Reset()
	if m.Len() != 0 {
		t.Errorf("expected no voices after reset, got %d", m.Len())
	}
}
