package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"stepbox/audio"
)

const projectVersion = 1

type projectFile struct {
	Version int                   `json:"version"`
	State   *audio.SequencerState `json:"state"`
}

func saveProject(path string, state *audio.SequencerState) error {
	data, err := json.MarshalIndent(projectFile{Version: projectVersion, State: state}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

func loadProjectFile(path string) (*audio.SequencerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var file projectFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	if file.Version > projectVersion {
		return nil, fmt.Errorf("project version %d is newer than this build supports", file.Version)
	}
	if file.Version == 0 {
		// Early project files were a bare state blob with no version
		// wrapper and a fixed four-track layout.
		state := new(audio.SequencerState)
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("parsing project: %w", err)
		}
		migrateLegacy(state)
		file.State = state
	}
	if file.State == nil || len(file.State.Tracks) == 0 {
		return nil, fmt.Errorf("project has no tracks")
	}
	return file.State, nil
}

// migrateLegacy fills in the fields versioned files carry but legacy files
// predate: per-track mix settings, FX defaults, and pattern bank rows.
func migrateLegacy(state *audio.SequencerState) {
	if state.Bpm == 0 {
		state.Bpm = 120
	}
	notes := make([]uint8, len(state.Tracks))
	for i := range state.Tracks {
		track := &state.Tracks[i]
		if track.DefaultNote == 0 {
			track.DefaultNote = track.Kind.DefaultNote()
		}
		if track.Name == "" {
			track.Name = track.Kind.String()
		}
		if track.Params == nil {
			track.Params = make(map[string]float64)
			for _, def := range audio.ParamDefs(track.Kind) {
				track.Params[def.Key] = def.Default
			}
		}
		if track.Volume == 0 {
			track.Volume = 0.8
		}
		if track.Fx.FilterCutoff == 0 {
			track.Fx = audio.DefaultTrackFxState()
		}
		notes[i] = track.DefaultNote
	}
	if state.MasterFx.ReverbDecay == 0 {
		state.MasterFx = audio.DefaultMasterFxState()
	}
	for i := range state.Bank.Patterns {
		if state.Bank.Patterns[i].NumTracks() == 0 {
			state.Bank.Patterns[i] = audio.NewPattern(notes)
		}
	}
	for state.Pattern.NumTracks() < len(state.Tracks) {
		state.Pattern.AddTrack(notes[state.Pattern.NumTracks()])
	}
}

// applyProject installs a loaded state on the engine and reloads sample
// buffers for sampler tracks. Missing samples are skipped with a warning so
// a moved library does not make a project unloadable.
func applyProject(env *env, state *audio.SequencerState) {
	env.bus.Send(audio.LoadProject{State: state})
	for i, track := range state.Tracks {
		if track.Kind != audio.Sampler || track.SamplePath == "" {
			continue
		}
		path, err := resolveSample(track.SamplePath, env.sampleDirs)
		if err != nil {
			log.Printf("track %d: %v", i+1, err)
			continue
		}
		buf, err := loadSample(path, sampleRate)
		if err != nil {
			log.Printf("track %d: %v", i+1, err)
			continue
		}
		env.bus.Send(audio.LoadSample{Track: i, Buffer: buf, Path: path})
	}
}
