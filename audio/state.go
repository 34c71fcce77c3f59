package audio

import "sync"

// TrackState is the externally visible configuration of one track.
type TrackState struct {
	Kind        SynthKind          `json:"kind"`
	Name        string             `json:"name"`
	DefaultNote uint8              `json:"default_note"`
	Params      map[string]float64 `json:"params"`
	SamplePath  string             `json:"sample_path,omitempty"`
	Volume      float64            `json:"volume"`
	Pan         float64            `json:"pan"`
	Mute        bool               `json:"mute"`
	Solo        bool               `json:"solo"`
	Fx          TrackFxState       `json:"fx"`
}

func newTrackState(kind SynthKind) TrackState {
	return TrackState{
		Kind:        kind,
		Name:        kind.String(),
		DefaultNote: kind.DefaultNote(),
		Params:      defaultParams(kind),
		Volume:      0.8,
		Fx:          DefaultTrackFxState(),
	}
}

func defaultParams(kind SynthKind) map[string]float64 {
	params := make(map[string]float64)
	for _, def := range ParamDefs(kind) {
		params[def.Key] = def.Default
	}
	return params
}

func (t TrackState) clone() TrackState {
	out := t
	out.Params = make(map[string]float64, len(t.Params))
	for k, v := range t.Params {
		out.Params[k] = v
	}
	return out
}

// SequencerState is a complete snapshot of the engine, published to readers
// and serialized as the project file body.
type SequencerState struct {
	Playing        bool          `json:"playing"`
	Bpm            float64       `json:"bpm"`
	CurrentStep    int           `json:"current_step"`
	Pattern        Pattern       `json:"pattern"`
	Tracks         []TrackState  `json:"tracks"`
	MasterFx       MasterFxState `json:"master_fx"`
	Bank           PatternBank   `json:"bank"`
	CurrentPattern int           `json:"current_pattern"`
	Mode           PlaybackMode  `json:"mode"`
	Arrangement    Arrangement   `json:"arrangement"`
	SongPosition   int           `json:"song_position"`
	SongRepeat     int           `json:"song_repeat"`
}

// NewSequencerState builds the default session: kick, snare, hihat and bass
// over an empty pattern at 120 bpm.
func NewSequencerState() *SequencerState {
	kinds := []SynthKind{Kick, Snare, HiHat, Bass}
	tracks := make([]TrackState, len(kinds))
	notes := make([]uint8, len(kinds))
	for i, kind := range kinds {
		tracks[i] = newTrackState(kind)
		notes[i] = kind.DefaultNote()
	}
	return &SequencerState{
		Bpm:      120,
		Pattern:  NewPattern(notes),
		Tracks:   tracks,
		MasterFx: DefaultMasterFxState(),
		Bank:     NewPatternBank(notes),
	}
}

func (s *SequencerState) Clone() *SequencerState {
	out := *s
	out.Pattern = s.Pattern.Clone()
	out.Tracks = make([]TrackState, len(s.Tracks))
	for i, t := range s.Tracks {
		out.Tracks[i] = t.clone()
	}
	out.Bank = s.Bank.Clone()
	out.Arrangement = s.Arrangement.Clone()
	return &out
}

// Store holds the latest published snapshot. The engine publishes with a
// try-lock so the audio thread never waits on a reader.
type Store struct {
	mu    sync.RWMutex
	state *SequencerState
}

func NewStore(state *SequencerState) *Store {
	return &Store{state: state}
}

// Snapshot returns a deep copy of the latest published state.
func (s *Store) Snapshot() *SequencerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// tryPublish swaps in a new snapshot unless a reader holds the lock, in
// which case the update is skipped; the next publish carries fresher state
// anyway.
func (s *Store) tryPublish(state *SequencerState) bool {
	if !s.mu.TryLock() {
		return false
	}
	s.state = state
	s.mu.Unlock()
	return true
}
