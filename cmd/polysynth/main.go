// Command polysynth plays the engine live through the default audio
// device, driven by an interactive note/parameter REPL.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ebitengine/oto/v3"

	"github.com/waveforge/polysynth/pkg/dsp/oscillator"
	"github.com/waveforge/polysynth/pkg/event"
	"github.com/waveforge/polysynth/pkg/framework/debug"
	"github.com/waveforge/polysynth/pkg/framework/engine"
)

func main() {
	var (
		rate     = flag.Float64("rate", 48000, "output sample rate in Hz")
		block    = flag.Int("block", 512, "render block size in frames")
		wave     = flag.String("wave", "sine", "waveform: sine, triangle, saw, square")
		internal = flag.Float64("internal", engine.DefaultInternalRate, "internal render rate in Hz")
		direct   = flag.Bool("direct", false, "render directly at the output rate (no resampling)")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	waveform, err := parseWaveform(*wave)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := debug.Default()
	if *verbose {
		log.SetLevel(debug.LogLevelDebug)
	}

	eng := engine.New(
		engine.WithWaveform(waveform),
		engine.WithInternalRate(*internal),
		engine.WithResampling(!*direct),
		engine.WithLogger(log),
	)
	if err := eng.Activate(*rate, *block, *block); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := newPlayer(eng, *block)

	op := &oto.NewContextOptions{
		SampleRate:   int(*rate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audio device:", err)
		os.Exit(1)
	}
	<-ready

	otoPlayer := ctx.NewPlayer(p)
	otoPlayer.Play()
	defer otoPlayer.Close()

	fmt.Printf("polysynth: %s wave, %g Hz out, %g Hz internal\n",
		waveform, *rate, eng.InternalRate())
	fmt.Println(`commands: on <key>, off <key>, choke <key>, vol <0..1>, mod <key> <amount>, stats, events, save <file>, load <file>, quit`)

	if err := repl(p); err != nil && err != io.EOF {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseWaveform(name string) (oscillator.Waveform, error) {
	switch strings.ToLower(name) {
	case "sine":
		return oscillator.WaveSine, nil
	case "triangle":
		return oscillator.WaveTriangle, nil
	case "saw":
		return oscillator.WaveSaw, nil
	case "square":
		return oscillator.WaveSquare, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q", name)
	}
}

func repl(p *player) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := eval(p, fields); err != nil {
			fmt.Println(err)
		}
	}
}

func eval(p *player, fields []string) error {
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "on", "off", "choke":
		key, err := parseKey(args)
		if err != nil {
			return err
		}
		id := event.NoteID{NoteID: event.Any, Channel: 0, Key: key}
		switch cmd {
		case "on":
			p.Push(event.NoteOn{NoteID: id})
		case "off":
			p.Push(event.NoteOff{NoteID: id})
		case "choke":
			p.Push(event.NoteChoke{NoteID: id})
		}
		return nil

	case "vol":
		if len(args) != 1 {
			return fmt.Errorf("usage: vol <0..1>")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		return p.SetParam(engine.ParamVolume, v)

	case "mod":
		if len(args) != 2 {
			return fmt.Errorf("usage: mod <key> <amount>")
		}
		key, err := parseKey(args[:1])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		p.Push(event.ParamMod{
			NoteID: event.NoteID{NoteID: event.Any, Channel: 0, Key: key},
			Index:  engine.ParamVolume,
			Amount: amount,
		})
		return nil

	case "stats":
		fmt.Println(p.Stats())
		return nil

	case "events":
		for _, ev := range p.DrainEvents() {
			fmt.Println(ev)
		}
		return nil

	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save <file>")
		}
		return p.SaveState(args[0])

	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load <file>")
		}
		return p.LoadState(args[0])

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func parseKey(args []string) (int16, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected a MIDI key number")
	}
	key, err := strconv.Atoi(args[0])
	if err != nil || key < 0 || key > 127 {
		return 0, fmt.Errorf("invalid key %q", args[0])
	}
	return int16(key), nil
}
