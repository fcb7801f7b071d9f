package main

import (
	"encoding/binary"
	"math"
	"os"
	"sync"

	"github.com/waveforge/polysynth/pkg/event"
	"github.com/waveforge/polysynth/pkg/framework/debug"
	"github.com/waveforge/polysynth/pkg/framework/engine"
)

const bytesPerFrame = 8 // 2 channels x float32

// player adapts the engine to oto's pull model: Read renders whole blocks
// and hands out interleaved little-endian float32 stereo. The mutex
// serializes the audio callback against REPL commands; each holder releases
// it within one block's work.
type player struct {
	mu sync.Mutex

	eng *engine.Engine
	in  *event.Queue
	out *event.Queue

	block   int
	outL    []float32
	outR    []float32
	pending []byte

	lastStats debug.BlockStats
}

func newPlayer(eng *engine.Engine, block int) *player {
	return &player{
		eng:     eng,
		in:      event.NewQueue(),
		out:     event.NewQueue(),
		block:   block,
		outL:    make([]float32, block),
		outR:    make([]float32, block),
		pending: make([]byte, 0, block*bytesPerFrame),
	}
}

// Read implements io.Reader for oto. It never returns an error: on engine
// failure the block is silent already.
func (p *player) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.pending) < len(b) {
		events := p.in.Drain()
		p.eng.Process(p.block, events, p.outL, p.outR, p.out)
		p.lastStats = debug.AnalyzeBlock(p.outL)

		for i := 0; i < p.block; i++ {
			var frame [bytesPerFrame]byte
			binary.LittleEndian.PutUint32(frame[0:], math.Float32bits(p.outL[i]))
			binary.LittleEndian.PutUint32(frame[4:], math.Float32bits(p.outR[i]))
			p.pending = append(p.pending, frame[:]...)
		}
	}

	n := copy(b, p.pending)
	p.pending = p.pending[:copy(p.pending, p.pending[n:])]
	return n, nil
}

// Push queues an event for the start of the next rendered block.
func (p *player) Push(ev event.Event) {
	p.in.Push(ev)
}

// SetParam forwards a control-side parameter write.
func (p *player) SetParam(index int, value float64) error {
	return p.eng.SetParam(index, value)
}

// Stats returns the analysis of the most recently rendered block.
func (p *player) Stats() debug.BlockStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStats
}

// DrainEvents returns the events the engine produced since the last call.
func (p *player) DrainEvents() []event.Event {
	return p.out.Drain()
}

// SaveState writes the engine state to a file.
func (p *player) SaveState(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.eng.SaveState(f)
}

// LoadState restores the engine state from a file.
func (p *player) LoadState(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.eng.LoadState(f)
}
