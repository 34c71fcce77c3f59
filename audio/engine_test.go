package audio

import (
	"math"
	"testing"
)

func newTestEngine() (*Engine, *Bus, *Store) {
	bus := NewBus()
	store := NewStore(NewSequencerState())
	engine := NewEngine(44100, bus, store)
	return engine, bus, store
}

func process(e *Engine, n int) ([]float64, []float64) {
	left := make([]float64, n)
	right := make([]float64, n)
	e.Process(left, right)
	return left, right
}

func peak(left, right []float64) float64 {
	var p float64
	for i := range left {
		if v := math.Abs(left[i]); v > p {
			p = v
		}
		if v := math.Abs(right[i]); v > p {
			p = v
		}
	}
	return p
}

// barSamples is the length of one 16-step bar at the default 120 bpm.
const barSamples = 88200

func TestEngineSilentWhenStopped(t *testing.T) {
	engine, bus, _ := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	if l, r := process(engine, 4410); peak(l, r) != 0 {
		t.Error("engine produced audio while stopped")
	}
}

func TestEnginePlayTriggersFirstStep(t *testing.T) {
	engine, bus, _ := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(Play{})
	if l, r := process(engine, 4410); peak(l, r) == 0 {
		t.Error("no audio after play with an active first step")
	}
}

func TestEngineStopSilencesSources(t *testing.T) {
	engine, bus, _ := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(Play{})
	process(engine, 1000)
	bus.Send(Stop{})
	if l, r := process(engine, 4410); peak(l, r) != 0 {
		t.Error("audio after stop")
	}
}

func TestEngineBpmClamped(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SetBpm{Bpm: 999})
	process(engine, 2000)
	if got := store.Snapshot().Bpm; got != 200 {
		t.Errorf("want bpm clamped to 200, got %v", got)
	}
}

func TestEngineDeferredPatternSwitch(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(Play{})
	process(engine, 100)

	bus.Send(SelectPattern{Pattern: 3})
	process(engine, 44100)
	if got := store.Snapshot().CurrentPattern; got != 0 {
		t.Fatalf("pattern switched mid-bar: got %d", got)
	}

	process(engine, barSamples)
	if got := store.Snapshot().CurrentPattern; got != 3 {
		t.Errorf("want pattern 3 after the bar wrapped, got %d", got)
	}
}

func TestEngineImmediatePatternSwitchWhenStopped(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SelectPattern{Pattern: 5})
	process(engine, 2000)
	if got := store.Snapshot().CurrentPattern; got != 5 {
		t.Errorf("want immediate switch while stopped, got pattern %d", got)
	}
}

func TestEngineStopAppliesPendingPattern(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(Play{})
	bus.Send(SelectPattern{Pattern: 2})
	bus.Send(Stop{})
	process(engine, 2000)

	st := store.Snapshot()
	if st.CurrentPattern != 2 {
		t.Errorf("want pending pattern applied on stop, got %d", st.CurrentPattern)
	}
	if st.Playing {
		t.Error("still playing after stop")
	}
}

func TestEnginePatternSwitchKeepsEdits(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 7})
	bus.Send(SelectPattern{Pattern: 1})
	bus.Send(SelectPattern{Pattern: 0})
	process(engine, 2000)

	if !store.Snapshot().Pattern.Step(0, 7).Active {
		t.Error("live edits lost after switching away and back")
	}
}

func TestEngineSongModeAdvances(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SetPlaybackMode{Mode: SongMode})
	bus.Send(AppendArrangement{Pattern: 0, Repeats: 2})
	bus.Send(AppendArrangement{Pattern: 1, Repeats: 1})
	bus.Send(Play{})

	process(engine, barSamples+2000)
	st := store.Snapshot()
	if st.SongPosition != 0 || st.SongRepeat != 1 {
		t.Fatalf("after one bar: position %d repeat %d, want 0/1", st.SongPosition, st.SongRepeat)
	}

	process(engine, barSamples)
	st = store.Snapshot()
	if st.SongPosition != 1 {
		t.Fatalf("after two bars: position %d, want 1", st.SongPosition)
	}
	if st.CurrentPattern != 1 {
		t.Errorf("want pattern 1 loaded at position 1, got %d", st.CurrentPattern)
	}

	// the arrangement loops back around
	process(engine, barSamples)
	st = store.Snapshot()
	if st.SongPosition != 0 || st.SongRepeat != 0 {
		t.Errorf("after the last entry: position %d repeat %d, want 0/0", st.SongPosition, st.SongRepeat)
	}
}

func TestEnginePlayInSongModeStartsAtFirstEntry(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SetPlaybackMode{Mode: SongMode})
	bus.Send(AppendArrangement{Pattern: 4, Repeats: 1})
	bus.Send(Play{})
	process(engine, 2000)

	st := store.Snapshot()
	if st.CurrentPattern != 4 {
		t.Errorf("want the first entry's pattern loaded, got %d", st.CurrentPattern)
	}
	if st.SongPosition != 0 {
		t.Errorf("want song position 0, got %d", st.SongPosition)
	}
}

func TestEnginePauseKeepsStep(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(Play{})
	process(engine, 30000)
	bus.Send(Pause{})
	process(engine, 1000)

	st := store.Snapshot()
	if st.Playing {
		t.Error("still marked playing after pause")
	}
	step := st.CurrentStep
	if step == 0 {
		t.Fatal("expected playback to have advanced past step 0")
	}

	// resume continues from the same place instead of rewinding
	bus.Send(Play{})
	process(engine, 1000)
	if got := store.Snapshot().CurrentStep; got < step {
		t.Errorf("resume rewound from step %d to %d", step, got)
	}
}

func TestEngineMuteSilencesTrack(t *testing.T) {
	engine, bus, _ := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(ToggleMute{Track: 0})
	bus.Send(Play{})
	if l, r := process(engine, 4410); peak(l, r) != 0 {
		t.Error("muted track is audible")
	}
}

func TestEngineSoloSilencesOthers(t *testing.T) {
	engine, bus, _ := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(ToggleSolo{Track: 1})
	bus.Send(Play{})
	if l, r := process(engine, 4410); peak(l, r) != 0 {
		t.Error("unsoloed track is audible while another track is soloed")
	}
}

func TestEngineAddRemoveTrackRefusedWhilePlaying(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(Play{})
	bus.Send(AddTrack{Kind: Sampler})
	bus.Send(RemoveTrack{Track: 0})
	process(engine, 2000)

	if got := len(store.Snapshot().Tracks); got != 4 {
		t.Errorf("track list changed while playing: %d tracks", got)
	}

	bus.Send(Stop{})
	bus.Send(AddTrack{Kind: Sampler})
	process(engine, 2000)
	st := store.Snapshot()
	if got := len(st.Tracks); got != 5 {
		t.Fatalf("want 5 tracks after add, got %d", got)
	}
	if st.Tracks[4].Kind != Sampler {
		t.Errorf("want a sampler track, got %s", st.Tracks[4].Kind)
	}
	if st.Pattern.NumTracks() != 5 {
		t.Errorf("pattern rows not extended: %d", st.Pattern.NumTracks())
	}

	bus.Send(RemoveTrack{Track: 4})
	process(engine, 2000)
	if got := len(store.Snapshot().Tracks); got != 4 {
		t.Errorf("want 4 tracks after remove, got %d", got)
	}
}

func TestEngineAddTrackWithName(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(AddTrack{Kind: Kick, Name: "kick2"})
	process(engine, 2000)
	st := store.Snapshot()
	if got := st.Tracks[len(st.Tracks)-1].Name; got != "kick2" {
		t.Errorf("want custom track name, got %q", got)
	}
}

func TestEngineLastTrackNotRemovable(t *testing.T) {
	engine, bus, store := newTestEngine()
	for i := 0; i < 4; i++ {
		bus.Send(RemoveTrack{Track: 0})
	}
	process(engine, 2000)
	if got := len(store.Snapshot().Tracks); got != 1 {
		t.Errorf("want 1 track left, got %d", got)
	}
}

func TestEngineTrackParamMirrored(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SetTrackParam{Track: 0, Key: "pitch_start", Value: 9999})
	process(engine, 2000)
	if got := store.Snapshot().Tracks[0].Params["pitch_start"]; got != 250 {
		t.Errorf("want clamped value 250 in the snapshot, got %v", got)
	}
}

func TestEngineVolumePanClamped(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(SetTrackVolume{Track: 0, Volume: 5})
	bus.Send(SetTrackPan{Track: 1, Pan: -9})
	process(engine, 2000)
	st := store.Snapshot()
	if st.Tracks[0].Volume != 1 {
		t.Errorf("want volume clamped to 1, got %v", st.Tracks[0].Volume)
	}
	if st.Tracks[1].Pan != -1 {
		t.Errorf("want pan clamped to -1, got %v", st.Tracks[1].Pan)
	}
}

func TestEngineFxToggleMirrored(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(ToggleFxEnabled{Track: 0, Fx: FxFilter})
	bus.Send(ToggleFxEnabled{Track: 0, Fx: FxDelay})
	bus.Send(SetFxParam{Track: 0, Key: "filter_cutoff", Value: 800})
	process(engine, 2000)

	fx := store.Snapshot().Tracks[0].Fx
	if !fx.FilterEnabled || !fx.DelayEnabled || fx.DistEnabled {
		t.Errorf("fx enables wrong: %+v", fx)
	}
	if fx.FilterCutoff != 800 {
		t.Errorf("want cutoff 800, got %v", fx.FilterCutoff)
	}
}

func TestEngineLoadSampleConvertsTrack(t *testing.T) {
	engine, bus, store := newTestEngine()
	buf := make([]float64, 1000)
	bus.Send(LoadSample{Track: 1, Buffer: buf, Path: "clap.wav"})
	process(engine, 2000)

	track := store.Snapshot().Tracks[1]
	if track.Kind != Sampler {
		t.Fatalf("want track converted to sampler, got %s", track.Kind)
	}
	if track.SamplePath != "clap.wav" {
		t.Errorf("want sample path recorded, got %q", track.SamplePath)
	}
}

func TestEnginePreviewPlaysOnce(t *testing.T) {
	engine, bus, _ := newTestEngine()
	buf := make([]float64, 500)
	for i := range buf {
		buf[i] = 0.5
	}
	bus.Send(PreviewSample{Buffer: buf})

	if l, r := process(engine, 500); peak(l, r) == 0 {
		t.Fatal("preview is silent")
	}
	if l, r := process(engine, 500); peak(l, r) != 0 {
		t.Error("preview played more than once")
	}
}

func TestEngineLoadProjectStopsPlayback(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(Play{})
	process(engine, 2000)

	loaded := NewSequencerState()
	loaded.Bpm = 150
	bus.Send(LoadProject{State: loaded})
	process(engine, 2000)

	st := store.Snapshot()
	if st.Playing {
		t.Error("still playing after loading a project")
	}
	if st.Bpm != 150 {
		t.Errorf("want bpm 150 from the loaded project, got %v", st.Bpm)
	}
}

func TestEngineCopyPattern(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(CopyPattern{From: 0, To: 7})
	process(engine, 2000)

	st := store.Snapshot()
	if !st.Bank.Patterns[7].Step(0, 0).Active {
		t.Error("copied pattern missing the active step")
	}
}

func TestEngineClearPattern(t *testing.T) {
	engine, bus, store := newTestEngine()
	bus.Send(ToggleStep{Track: 0, Step: 0})
	bus.Send(ClearPattern{Pattern: 0})
	process(engine, 2000)

	if store.Snapshot().Pattern.Step(0, 0).Active {
		t.Error("clearing the current pattern left the live pattern intact")
	}
}
