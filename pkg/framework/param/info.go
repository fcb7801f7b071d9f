// Package param holds the engine's parameters as two independently readable
// views: a control-side (main thread) view and a render-side (audio thread)
// view, synchronized through dirty flags under a single mutex.
package param

import "fmt"

// Flags for parameter capabilities.
const (
	CanAutomate uint32 = 1 << 0
	// CanModulate allows global modulation of the parameter.
	CanModulate uint32 = 1 << 1
	// CanModulatePerNote allows per-voice additive modulation offsets.
	CanModulatePerNote uint32 = 1 << 2
)

// Info describes a parameter. Index doubles as the parameter's stable ID and
// its position in the state blob.
type Info struct {
	Index        int
	Name         string
	Min          float64
	Max          float64
	DefaultValue float64
	Flags        uint32
}

// Clamp restricts v to the parameter's range.
func (i Info) Clamp(v float64) float64 {
	if v < i.Min {
		return i.Min
	}
	if v > i.Max {
		return i.Max
	}
	return v
}

func (i Info) String() string {
	return fmt.Sprintf("%s [%g..%g] default %g", i.Name, i.Min, i.Max, i.DefaultValue)
}

// Builder provides a fluent API for creating parameter descriptions.
type Builder struct {
	info Info
}

// New creates a new parameter builder. Parameters default to the [0,1] range
// with full automation and modulation capabilities.
func New(index int, name string) *Builder {
	return &Builder{
		info: Info{
			Index: index,
			Name:  name,
			Min:   0,
			Max:   1,
			Flags: CanAutomate | CanModulate | CanModulatePerNote,
		},
	}
}

// Range sets the min and max values.
func (b *Builder) Range(min, max float64) *Builder {
	b.info.Min = min
	b.info.Max = max
	return b
}

// Default sets the default value.
func (b *Builder) Default(value float64) *Builder {
	b.info.DefaultValue = value
	return b
}

// Flags replaces the capability flags.
func (b *Builder) Flags(flags uint32) *Builder {
	b.info.Flags = flags
	return b
}

// Build returns the configured parameter description.
func (b *Builder) Build() Info {
	return b.info
}
