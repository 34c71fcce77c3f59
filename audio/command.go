package audio

import "log"

// Command is a message from a control surface to the engine. Commands are
// plain value structs; the engine applies them between audio frames so no
// locks are held on the render path.
type Command interface {
	isCommand()
}

// Transport.

type Play struct{}
type Pause struct{}
type Stop struct{}

type SetBpm struct {
	Bpm float64
}

// Pattern editing.

type ToggleStep struct {
	Track int
	Step  int
}

type SetStepNote struct {
	Track int
	Step  int
	Note  uint8
}

type ClearTrack struct {
	Track int
}

type FillTrack struct {
	Track int
	Note  uint8
}

// Track mix and parameters.

type SetTrackParam struct {
	Track int
	Key   string
	Value float64
}

type SetTrackVolume struct {
	Track  int
	Volume float64
}

type SetTrackPan struct {
	Track int
	Pan   float64
}

type ToggleMute struct {
	Track int
}

type ToggleSolo struct {
	Track int
}

// Effects.

type SetFxParam struct {
	Track int
	Key   string
	Value float64
}

type SetFxFilterType struct {
	Track int
	Type  FilterType
}

type ToggleFxEnabled struct {
	Track int
	Fx    FxType
}

type SetMasterFxParam struct {
	Key   string
	Value float64
}

type ToggleMasterFxEnabled struct{}

// Patterns and song mode.

type SelectPattern struct {
	Pattern int
}

type CopyPattern struct {
	From int
	To   int
}

type ClearPattern struct {
	Pattern int
}

type SetPlaybackMode struct {
	Mode PlaybackMode
}

type AppendArrangement struct {
	Pattern int
	Repeats int
}

type InsertArrangement struct {
	Index   int
	Pattern int
	Repeats int
}

type RemoveArrangement struct {
	Index int
}

type SetArrangementEntry struct {
	Index   int
	Pattern int
	Repeats int
}

type ClearArrangement struct{}

// Track lifecycle and samples.

type AddTrack struct {
	Kind SynthKind
	Name string // empty for the kind's default name
}

type RemoveTrack struct {
	Track int
}

type LoadSample struct {
	Track  int
	Buffer []float64
	Path   string
}

type PreviewSample struct {
	Buffer []float64
}

type LoadProject struct {
	State *SequencerState
}

func (Play) isCommand()                  {}
func (Pause) isCommand()                 {}
func (Stop) isCommand()                  {}
func (SetBpm) isCommand()                {}
func (ToggleStep) isCommand()            {}
func (SetStepNote) isCommand()           {}
func (ClearTrack) isCommand()            {}
func (FillTrack) isCommand()             {}
func (SetTrackParam) isCommand()         {}
func (SetTrackVolume) isCommand()        {}
func (SetTrackPan) isCommand()           {}
func (ToggleMute) isCommand()            {}
func (ToggleSolo) isCommand()            {}
func (SetFxParam) isCommand()            {}
func (SetFxFilterType) isCommand()       {}
func (ToggleFxEnabled) isCommand()       {}
func (SetMasterFxParam) isCommand()      {}
func (ToggleMasterFxEnabled) isCommand() {}
func (SelectPattern) isCommand()         {}
func (CopyPattern) isCommand()           {}
func (ClearPattern) isCommand()          {}
func (SetPlaybackMode) isCommand()       {}
func (AppendArrangement) isCommand()     {}
func (InsertArrangement) isCommand()     {}
func (RemoveArrangement) isCommand()     {}
func (SetArrangementEntry) isCommand()   {}
func (ClearArrangement) isCommand()      {}
func (AddTrack) isCommand()              {}
func (RemoveTrack) isCommand()           {}
func (LoadSample) isCommand()            {}
func (PreviewSample) isCommand()         {}
func (LoadProject) isCommand()           {}

const busCapacity = 256

// Bus carries commands to the engine over a bounded channel. Send never
// blocks: when the engine falls behind, commands are dropped rather than
// stalling the caller.
type Bus struct {
	ch chan Command
}

func NewBus() *Bus {
	return &Bus{ch: make(chan Command, busCapacity)}
}

// Send queues a command, reporting false if the bus is full.
func (b *Bus) Send(cmd Command) bool {
	select {
	case b.ch <- cmd:
		return true
	default:
		log.Printf("command bus full, dropping %T", cmd)
		return false
	}
}

// TryRecv returns the next pending command without blocking.
func (b *Bus) TryRecv() (Command, bool) {
	select {
	case cmd := <-b.ch:
		return cmd, true
	default:
		return nil, false
	}
}
