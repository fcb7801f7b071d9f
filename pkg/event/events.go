// Package event defines the timestamped control events consumed and produced
// by the synthesizer engine, and an ordered queue for moving them between the
// control and render contexts.
package event

import (
	"fmt"
)

// Any is the wildcard sentinel for note identity fields. A field set to Any
// matches every voice regardless of that attribute.
const Any = -1

type Type uint8

const (
	TypeNoteOn Type = iota
	TypeNoteOff
	TypeNoteChoke
	TypeNoteEnd
	TypeParamValue
	TypeParamMod
	TypeNoteExpression
	TypeTransport
	TypeMIDI
	TypeMIDISysEx
	TypeMIDI2
)

// Event is the interface implemented by all event variants. Dispatch is done
// by concrete type; kinds the engine doesn't handle are explicit no-ops.
type Event interface {
	Type() Type
	Time() int32
	String() string
}

// Header carries the frame offset of an event within its block.
type Header struct {
	At int32
}

func (h Header) Time() int32 {
	return h.At
}

// NoteID is the identity tuple used to match events against voices.
// Each field may be Any (-1) on either side of a comparison.
type NoteID struct {
	NoteID  int32
	Channel int16
	Key     int16
}

// Matches reports whether two identities refer to the same voice, treating
// Any on either side as a match for that field.
func (id NoteID) Matches(other NoteID) bool {
	return matchField32(id.NoteID, other.NoteID) &&
		matchField16(id.Channel, other.Channel) &&
		matchField16(id.Key, other.Key)
}

func matchField32(a, b int32) bool {
	return a == Any || b == Any || a == b
}

func matchField16(a, b int16) bool {
	return a == Any || b == Any || a == b
}

type NoteOn struct {
	Header
	NoteID
}

func (e NoteOn) Type() Type {
	return TypeNoteOn
}

func (e NoteOn) String() string {
	return fmt.Sprintf("NoteOn{key:%d, note_id:%d, ch:%d, at:%d}",
		e.Key, e.NoteID.NoteID, e.Channel, e.At)
}

type NoteOff struct {
	Header
	NoteID
}

func (e NoteOff) Type() Type {
	return TypeNoteOff
}

func (e NoteOff) String() string {
	return fmt.Sprintf("NoteOff{key:%d, note_id:%d, ch:%d, at:%d}",
		e.Key, e.NoteID.NoteID, e.Channel, e.At)
}

// NoteChoke stops matching voices immediately, skipping any release tail.
type NoteChoke struct {
	Header
	NoteID
}

func (e NoteChoke) Type() Type {
	return TypeNoteChoke
}

func (e NoteChoke) String() string {
	return fmt.Sprintf("NoteChoke{key:%d, note_id:%d, ch:%d, at:%d}",
		e.Key, e.NoteID.NoteID, e.Channel, e.At)
}

// NoteEnd is emitted once when a released voice is removed from the active
// set at the end of a block.
type NoteEnd struct {
	Header
	NoteID
}

func (e NoteEnd) Type() Type {
	return TypeNoteEnd
}

func (e NoteEnd) String() string {
	return fmt.Sprintf("NoteEnd{key:%d, note_id:%d, ch:%d, at:%d}",
		e.Key, e.NoteID.NoteID, e.Channel, e.At)
}

// ParamValue sets a global parameter value. The engine also emits it (with
// no voice targeting) whenever a control-side change is applied to the
// render side.
type ParamValue struct {
	Header
	Index int32
	Value float64
}

func (e ParamValue) Type() Type {
	return TypeParamValue
}

func (e ParamValue) String() string {
	return fmt.Sprintf("ParamValue{index:%d, value:%g, at:%d}", e.Index, e.Value, e.At)
}

// ParamMod applies a per-voice additive offset on top of the global value.
// The identity filter selects the first matching voice.
type ParamMod struct {
	Header
	NoteID
	Index  int32
	Amount float64
}

func (e ParamMod) Type() Type {
	return TypeParamMod
}

func (e ParamMod) String() string {
	return fmt.Sprintf("ParamMod{index:%d, amount:%g, key:%d, note_id:%d, ch:%d, at:%d}",
		e.Index, e.Amount, e.Key, e.NoteID.NoteID, e.Channel, e.At)
}

type NoteExpression struct {
	Header
	NoteID
	Value float64
}

func (e NoteExpression) Type() Type {
	return TypeNoteExpression
}

func (e NoteExpression) String() string {
	return fmt.Sprintf("NoteExpression{key:%d, note_id:%d, ch:%d, value:%g, at:%d}",
		e.Key, e.NoteID.NoteID, e.Channel, e.Value, e.At)
}

type Transport struct {
	Header
}

func (e Transport) Type() Type {
	return TypeTransport
}

func (e Transport) String() string {
	return fmt.Sprintf("Transport{at:%d}", e.At)
}

type MIDI struct {
	Header
	Data [3]byte
}

func (e MIDI) Type() Type {
	return TypeMIDI
}

func (e MIDI) String() string {
	return fmt.Sprintf("MIDI{data:%v, at:%d}", e.Data, e.At)
}

type MIDISysEx struct {
	Header
	Data []byte
}

func (e MIDISysEx) Type() Type {
	return TypeMIDISysEx
}

func (e MIDISysEx) String() string {
	return fmt.Sprintf("MIDISysEx{len:%d, at:%d}", len(e.Data), e.At)
}

type MIDI2 struct {
	Header
	Data [4]uint32
}

func (e MIDI2) Type() Type {
	return TypeMIDI2
}

func (e MIDI2) String() string {
	return fmt.Sprintf("MIDI2{data:%v, at:%d}", e.Data, e.At)
}
