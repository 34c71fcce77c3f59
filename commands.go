package main

import (
	"errors"
	"fmt"
	"os"

	"stepbox/audio"
	"stepbox/dsl"
)

type command struct {
	name  string
	help  string
	run   func(*env, []dsl.Node) error
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"play", "start playback", playCommand, 0},
		{"pause", "pause playback, keeping position", pauseCommand, 0},
		{"stop", "stop playback and rewind", stopCommand, 0},
		{"bpm", "bpm <60-200>: set the tempo", bpmCommand, 1},
		{"status", "show the sequencer grid", statusCommand, 0},
		{"toggle", "toggle <track> <step>: flip a step on or off", toggleCommand, 2},
		{"note", "note <track> <step> <midi note>: set a step's pitch", noteCommand, 3},
		{"steps", "steps <track> '<expr>: set a row from a match expression", stepsCommand, 2},
		{"clear", "clear <track>: clear a track's steps", clearCommand, 1},
		{"fill", "fill <track> [note]: activate every step", fillCommand, -1},
		{"track", "track <track>: show a track's parameters", trackCommand, 1},
		{"set", "set <track> <param> <value>: set a synth parameter", setCommand, 3},
		{"vol", "vol <track> <0-1>: set track volume", volCommand, 2},
		{"pan", "pan <track> <-1 to 1>: set track pan", panCommand, 2},
		{"mute", "mute <track>...: toggle mute", muteCommand, -1},
		{"solo", "solo <track>...: toggle solo", soloCommand, -1},
		{"fx", "fx <track> <param> <value>: set an effect parameter", fxCommand, 3},
		{"fxtype", "fxtype <track> <lp|hp|bp>: set the filter type", fxTypeCommand, 2},
		{"fxon", "fxon <track> <filter|dist|delay>: toggle an effect", fxOnCommand, 2},
		{"master", "master <param> <value>: set a master effect parameter", masterCommand, 2},
		{"reverb", "toggle the master reverb", reverbCommand, 0},
		{"pattern", "pattern <1-16>: switch pattern (at the bar while playing)", patternCommand, 1},
		{"copy", "copy <from> <to>: copy a pattern to another slot", copyCommand, 2},
		{"clearpat", "clearpat <1-16>: clear a bank pattern", clearPatCommand, 1},
		{"mode", "mode <pattern|song>: set the playback mode", modeCommand, 1},
		{"song", "song add|ins|rm|set|clear|show: edit the arrangement", songCommand, -1},
		{"add", "add <kick|snare|hihat|bass|sampler> [name]: append a track", addCommand, -1},
		{"rm", "rm <track>: remove a track", rmCommand, 1},
		{"load", "load <track> <sample>: load a sample onto a track", loadCommand, 2},
		{"samples", "list available samples", samplesCommand, 0},
		{"preview", "preview <sample>: audition a sample", previewCommand, 1},
		{"save", "save <path>: save the project", saveCommand, 1},
		{"open", "open <path>: load a project", openCommand, 1},
		{"export", "export <pattern|song> <path>: render to a wav file", exportCommand, 2},
		{"help", "list commands", helpCommand, 0},
		{"quit", "exit", quitCommand, 0},
	}
}

func playCommand(e *env, args []dsl.Node) error {
	e.bus.Send(audio.Play{})
	return nil
}

func pauseCommand(e *env, args []dsl.Node) error {
	e.bus.Send(audio.Pause{})
	return nil
}

func stopCommand(e *env, args []dsl.Node) error {
	e.bus.Send(audio.Stop{})
	return nil
}

func bpmCommand(e *env, args []dsl.Node) error {
	var bpm float64
	if err := readArgs(args, &bpm); err != nil {
		return err
	}
	e.bus.Send(audio.SetBpm{Bpm: bpm})
	return nil
}

func statusCommand(e *env, args []dsl.Node) error {
	renderState(e.store.Snapshot(), os.Stdout)
	return nil
}

func toggleCommand(e *env, args []dsl.Node) error {
	var track, step int
	if err := readArgs(args, &track, &step); err != nil {
		return err
	}
	e.bus.Send(audio.ToggleStep{Track: track - 1, Step: step - 1})
	return nil
}

func noteCommand(e *env, args []dsl.Node) error {
	var track, step, note int
	if err := readArgs(args, &track, &step, &note); err != nil {
		return err
	}
	if note < 0 || note > 127 {
		return fmt.Errorf("midi note out of range 0-127: %d", note)
	}
	e.bus.Send(audio.SetStepNote{Track: track - 1, Step: step - 1, Note: uint8(note)})
	return nil
}

// stepsCommand sets a whole row at once from a match expression, toggling
// only the cells that differ so existing note data survives.
func stepsCommand(e *env, args []dsl.Node) error {
	var track int
	var expr dsl.MatchExpr
	if err := readArgs(args, &track, &expr); err != nil {
		return err
	}
	indexes, err := dsl.StepIndexes(expr)
	if err != nil {
		return err
	}
	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}
	st := e.store.Snapshot()
	for step := 0; step < audio.Steps; step++ {
		if st.Pattern.Step(track-1, step).Active != matched[step] {
			e.bus.Send(audio.ToggleStep{Track: track - 1, Step: step})
		}
	}
	return nil
}

func clearCommand(e *env, args []dsl.Node) error {
	var track int
	if err := readArgs(args, &track); err != nil {
		return err
	}
	e.bus.Send(audio.ClearTrack{Track: track - 1})
	return nil
}

func fillCommand(e *env, args []dsl.Node) error {
	var track int
	if err := readArgs(args[:1], &track); err != nil {
		return err
	}
	var note int
	if len(args) > 1 {
		if err := readArgs(args[1:], &note); err != nil {
			return err
		}
		if note < 1 || note > 127 {
			return fmt.Errorf("midi note out of range 1-127: %d", note)
		}
	}
	e.bus.Send(audio.FillTrack{Track: track - 1, Note: uint8(note)})
	return nil
}

func trackCommand(e *env, args []dsl.Node) error {
	var track int
	if err := readArgs(args, &track); err != nil {
		return err
	}
	st := e.store.Snapshot()
	if track < 1 || track > len(st.Tracks) {
		return fmt.Errorf("no such track: %d", track)
	}
	renderTrack(st.Tracks[track-1], os.Stdout)
	return nil
}

func setCommand(e *env, args []dsl.Node) error {
	var track int
	var key string
	var value float64
	if err := readArgs(args, &track, &key, &value); err != nil {
		return err
	}
	e.bus.Send(audio.SetTrackParam{Track: track - 1, Key: key, Value: value})
	return nil
}

func volCommand(e *env, args []dsl.Node) error {
	var track int
	var vol float64
	if err := readArgs(args, &track, &vol); err != nil {
		return err
	}
	e.bus.Send(audio.SetTrackVolume{Track: track - 1, Volume: vol})
	return nil
}

func panCommand(e *env, args []dsl.Node) error {
	var track int
	var pan float64
	if err := readArgs(args, &track, &pan); err != nil {
		return err
	}
	e.bus.Send(audio.SetTrackPan{Track: track - 1, Pan: pan})
	return nil
}

func muteCommand(e *env, args []dsl.Node) error {
	for _, arg := range args {
		var track int
		if err := readArgs([]dsl.Node{arg}, &track); err != nil {
			return err
		}
		e.bus.Send(audio.ToggleMute{Track: track - 1})
	}
	return nil
}

func soloCommand(e *env, args []dsl.Node) error {
	for _, arg := range args {
		var track int
		if err := readArgs([]dsl.Node{arg}, &track); err != nil {
			return err
		}
		e.bus.Send(audio.ToggleSolo{Track: track - 1})
	}
	return nil
}

func fxCommand(e *env, args []dsl.Node) error {
	var track int
	var key string
	var value float64
	if err := readArgs(args, &track, &key, &value); err != nil {
		return err
	}
	if _, _, _, ok := audio.FxParamRange(key); !ok {
		return fmt.Errorf("unknown effect parameter: %s", key)
	}
	e.bus.Send(audio.SetFxParam{Track: track - 1, Key: key, Value: value})
	return nil
}

func fxTypeCommand(e *env, args []dsl.Node) error {
	var track int
	var name string
	if err := readArgs(args, &track, &name); err != nil {
		return err
	}
	typ, err := audio.FilterTypeFromName(name)
	if err != nil {
		return err
	}
	e.bus.Send(audio.SetFxFilterType{Track: track - 1, Type: typ})
	return nil
}

func fxOnCommand(e *env, args []dsl.Node) error {
	var track int
	var name string
	if err := readArgs(args, &track, &name); err != nil {
		return err
	}
	fx, err := audio.FxTypeFromName(name)
	if err != nil {
		return err
	}
	e.bus.Send(audio.ToggleFxEnabled{Track: track - 1, Fx: fx})
	return nil
}

func masterCommand(e *env, args []dsl.Node) error {
	var key string
	var value float64
	if err := readArgs(args, &key, &value); err != nil {
		return err
	}
	if _, _, _, ok := audio.MasterFxParamRange(key); !ok {
		return fmt.Errorf("unknown master parameter: %s", key)
	}
	e.bus.Send(audio.SetMasterFxParam{Key: key, Value: value})
	return nil
}

func reverbCommand(e *env, args []dsl.Node) error {
	e.bus.Send(audio.ToggleMasterFxEnabled{})
	return nil
}

func patternCommand(e *env, args []dsl.Node) error {
	var pattern int
	if err := readArgs(args, &pattern); err != nil {
		return err
	}
	if pattern < 1 || pattern > audio.NumPatterns {
		return fmt.Errorf("pattern out of range 1-%d: %d", audio.NumPatterns, pattern)
	}
	e.bus.Send(audio.SelectPattern{Pattern: pattern - 1})
	return nil
}

func copyCommand(e *env, args []dsl.Node) error {
	var from, to int
	if err := readArgs(args, &from, &to); err != nil {
		return err
	}
	e.bus.Send(audio.CopyPattern{From: from - 1, To: to - 1})
	return nil
}

func clearPatCommand(e *env, args []dsl.Node) error {
	var pattern int
	if err := readArgs(args, &pattern); err != nil {
		return err
	}
	e.bus.Send(audio.ClearPattern{Pattern: pattern - 1})
	return nil
}

func modeCommand(e *env, args []dsl.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	switch name {
	case "pattern":
		e.bus.Send(audio.SetPlaybackMode{Mode: audio.PatternMode})
	case "song":
		e.bus.Send(audio.SetPlaybackMode{Mode: audio.SongMode})
	default:
		return fmt.Errorf("unknown mode: %s", name)
	}
	return nil
}

func songCommand(e *env, args []dsl.Node) error {
	var sub string
	if err := readArgs(args[:1], &sub); err != nil {
		return err
	}
	rest := args[1:]
	switch sub {
	case "add":
		var pattern int
		repeats := 1
		if len(rest) == 2 {
			if err := readArgs(rest, &pattern, &repeats); err != nil {
				return err
			}
		} else if err := readArgs(rest, &pattern); err != nil {
			return err
		}
		e.bus.Send(audio.AppendArrangement{Pattern: pattern - 1, Repeats: repeats})
	case "ins":
		var index, pattern, repeats int
		if err := readArgs(rest, &index, &pattern, &repeats); err != nil {
			return err
		}
		e.bus.Send(audio.InsertArrangement{Index: index - 1, Pattern: pattern - 1, Repeats: repeats})
	case "rm":
		var index int
		if err := readArgs(rest, &index); err != nil {
			return err
		}
		e.bus.Send(audio.RemoveArrangement{Index: index - 1})
	case "set":
		var index, pattern, repeats int
		if err := readArgs(rest, &index, &pattern, &repeats); err != nil {
			return err
		}
		e.bus.Send(audio.SetArrangementEntry{Index: index - 1, Pattern: pattern - 1, Repeats: repeats})
	case "clear":
		e.bus.Send(audio.ClearArrangement{})
	case "show":
		renderSong(e.store.Snapshot(), os.Stdout)
	default:
		return fmt.Errorf("unknown subcommand: %s", sub)
	}
	return nil
}

func addCommand(e *env, args []dsl.Node) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <kind> [name]")
	}
	var kindName string
	if err := readArgs(args[:1], &kindName); err != nil {
		return err
	}
	kind, err := audio.SynthKindFromName(kindName)
	if err != nil {
		return err
	}
	var name string
	if len(args) == 2 {
		if err := readArgs(args[1:], &name); err != nil {
			return err
		}
	}
	e.bus.Send(audio.AddTrack{Kind: kind, Name: name})
	return nil
}

func rmCommand(e *env, args []dsl.Node) error {
	var track int
	if err := readArgs(args, &track); err != nil {
		return err
	}
	e.bus.Send(audio.RemoveTrack{Track: track - 1})
	return nil
}

func loadCommand(e *env, args []dsl.Node) error {
	var track int
	var name string
	if err := readArgs(args, &track, &name); err != nil {
		return err
	}
	path, err := resolveSample(name, e.sampleDirs)
	if err != nil {
		return err
	}
	buf, err := loadSample(path, sampleRate)
	if err != nil {
		return err
	}
	e.bus.Send(audio.LoadSample{Track: track - 1, Buffer: buf, Path: path})
	return nil
}

func samplesCommand(e *env, args []dsl.Node) error {
	names := listSamples(e.sampleDirs)
	if len(names) == 0 {
		fmt.Println("no samples found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func previewCommand(e *env, args []dsl.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	path, err := resolveSample(name, e.sampleDirs)
	if err != nil {
		return err
	}
	buf, err := loadSample(path, sampleRate)
	if err != nil {
		return err
	}
	e.bus.Send(audio.PreviewSample{Buffer: buf})
	return nil
}

func saveCommand(e *env, args []dsl.Node) error {
	var path string
	if err := readArgs(args, &path); err != nil {
		return err
	}
	return saveProject(path, e.store.Snapshot())
}

func openCommand(e *env, args []dsl.Node) error {
	var path string
	if err := readArgs(args, &path); err != nil {
		return err
	}
	state, err := loadProjectFile(path)
	if err != nil {
		return err
	}
	applyProject(e, state)
	return nil
}

func exportCommand(e *env, args []dsl.Node) error {
	var what, path string
	if err := readArgs(args, &what, &path); err != nil {
		return err
	}
	st := e.store.Snapshot()

	buffers := make(map[int][]float64)
	for i, track := range st.Tracks {
		if track.Kind != audio.Sampler || track.SamplePath == "" {
			continue
		}
		resolved, err := resolveSample(track.SamplePath, e.sampleDirs)
		if err != nil {
			continue
		}
		if buf, err := loadSample(resolved, sampleRate); err == nil {
			buffers[i] = buf
		}
	}

	var left, right []float64
	switch what {
	case "pattern":
		// The live pattern may have unsaved edits; render what's audible.
		st.Bank.Patterns[st.CurrentPattern] = st.Pattern.Clone()
		left, right = audio.RenderPattern(st, buffers, st.CurrentPattern)
	case "song":
		left, right = audio.RenderSong(st, buffers)
	default:
		return fmt.Errorf("export pattern or song, not %q", what)
	}

	if err := audio.WriteWAV(path, left, right); err != nil {
		return err
	}
	secs := float64(len(left)) / sampleRate
	fmt.Printf("wrote %s (%.1fs)\n", path, secs)
	return nil
}

func helpCommand(e *env, args []dsl.Node) error {
	for _, c := range commands {
		fmt.Printf("%-10s %s\n", c.name, c.help)
	}
	return nil
}

func quitCommand(e *env, args []dsl.Node) error {
	e.quit = true
	return nil
}

func readArgs(args []dsl.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dsl.String:
				*p = string(s)
			case dsl.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dsl.Int:
				*p = float64(v)
			case dsl.Float:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			v, ok := arg.(dsl.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(v)
		case *dsl.MatchExpr:
			v, ok := arg.(dsl.MatchExpr)
			if !ok {
				return fmt.Errorf("argument error: expected a match expression")
			}
			*p = v
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
