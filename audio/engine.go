package audio

import (
	"log"
	"math"
)

// Engine owns the live sequencer state and renders audio. All mutation goes
// through the command bus and is applied between frames on the render
// goroutine, so the hot path never takes a lock. Readers observe the engine
// through snapshots published to the Store at roughly 60 Hz.
type Engine struct {
	sampleRate float64
	bus        *Bus
	store      *Store

	clock   clock
	state   *SequencerState
	sources []SoundSource
	chains  []*trackFxChain
	reverb  *stereoReverb

	// paused distinguishes resume from a cold start so the transport
	// continues from the frozen step.
	paused bool

	// pendingPattern holds a deferred pattern switch, -1 when none.
	pendingPattern int

	preview    []float64
	previewPos int

	publishCounter int
	publishEvery   int
}

func NewEngine(sampleRate float64, bus *Bus, store *Store) *Engine {
	e := &Engine{
		sampleRate:     sampleRate,
		bus:            bus,
		store:          store,
		reverb:         newStereoReverb(sampleRate),
		pendingPattern: -1,
		publishEvery:   int(sampleRate / 60),
	}
	e.installState(store.Snapshot())
	return e
}

// installState makes a snapshot the live state, rebuilding sources and FX
// chains to match. Sample buffers are not part of the snapshot; callers
// reload them with LoadSample afterwards.
func (e *Engine) installState(state *SequencerState) {
	e.state = state
	e.clock = newClock(e.sampleRate, state.Bpm)
	state.Bpm = e.clock.bpm
	state.Playing = false
	state.CurrentStep = 0

	e.sources = make([]SoundSource, len(state.Tracks))
	e.chains = make([]*trackFxChain, len(state.Tracks))
	for i, track := range state.Tracks {
		e.sources[i] = newSource(track.Kind, e.sampleRate, track.Params)
		e.chains[i] = newTrackFxChain(e.sampleRate)
		e.chains[i].configure(track.Fx)
	}
	configureReverb(e.reverb, state.MasterFx)
	e.pendingPattern = -1
	e.paused = false
	e.preview = nil
	e.previewPos = 0
}

// Process renders one buffer of stereo audio. It drains pending commands
// once, then renders sample by sample.
func (e *Engine) Process(left, right []float64) {
	e.drainCommands()
	for i := range left {
		l, r := e.renderFrame()
		left[i] = l
		right[i] = r

		e.publishCounter++
		if e.publishCounter >= e.publishEvery {
			e.publishCounter = 0
			e.store.tryPublish(e.state.Clone())
		}
	}
}

func (e *Engine) drainCommands() {
	for {
		cmd, ok := e.bus.TryRecv()
		if !ok {
			return
		}
		e.apply(cmd)
	}
}

func (e *Engine) renderFrame() (float64, float64) {
	step, fired := e.clock.tick()
	if fired {
		// Hold countdowns advance before this step's triggers so a
		// source triggered now gets its full first step.
		for _, src := range e.sources {
			src.StepTick()
		}
		for t := range e.state.Pattern.Tracks {
			if t >= len(e.sources) {
				break
			}
			cell := e.state.Pattern.Step(t, step)
			if cell.Active {
				e.sources[t].Trigger(cell.Note)
			}
		}
		e.state.CurrentStep = step
		if e.clock.takePatternWrap() {
			e.onPatternWrap()
		}
	}

	var left, right float64
	soloed := e.anySolo()
	for t, src := range e.sources {
		// FX always run so delay tails survive mutes.
		sample := e.chains[t].process(src.NextSample())
		track := &e.state.Tracks[t]
		if !isAudible(track.Mute, track.Solo, soloed) {
			continue
		}
		sample *= track.Volume
		gl, gr := panGains(track.Pan)
		left += sample * gl
		right += sample * gr
	}

	// Preview plays once, centered, outside the track chains.
	if e.preview != nil {
		s := e.preview[e.previewPos] * 0.8
		left += s
		right += s
		e.previewPos++
		if e.previewPos >= len(e.preview) {
			e.preview = nil
			e.previewPos = 0
		}
	}

	if e.state.MasterFx.ReverbEnabled {
		left, right = e.reverb.process(left, right)
	}
	return softClip(left), softClip(right)
}

// onPatternWrap runs when the step counter wraps past the end of a bar. In
// pattern mode it applies a deferred pattern switch; in song mode it counts
// repeats and advances the arrangement.
func (e *Engine) onPatternWrap() {
	switch e.state.Mode {
	case PatternMode:
		if e.pendingPattern >= 0 {
			e.loadBankPattern(e.pendingPattern)
			e.pendingPattern = -1
		}
	case SongMode:
		if e.state.Arrangement.Len() == 0 {
			return
		}
		entry := e.state.Arrangement.Entries[e.state.SongPosition]
		e.state.SongRepeat++
		if e.state.SongRepeat >= entry.Repeats {
			e.state.SongRepeat = 0
			e.state.SongPosition = (e.state.SongPosition + 1) % e.state.Arrangement.Len()
			e.loadBankPattern(e.state.Arrangement.Entries[e.state.SongPosition].Pattern)
		}
	}
}

// loadBankPattern saves the live pattern back into its bank slot, then makes
// the slot at index the live pattern.
func (e *Engine) loadBankPattern(index int) {
	if index < 0 {
		index = 0
	}
	if index >= NumPatterns {
		index = NumPatterns - 1
	}
	e.state.Bank.Patterns[e.state.CurrentPattern] = e.state.Pattern.Clone()
	e.state.Pattern = e.state.Bank.Patterns[index].Clone()
	e.state.CurrentPattern = index
}

func (e *Engine) anySolo() bool {
	for _, t := range e.state.Tracks {
		if t.Solo {
			return true
		}
	}
	return false
}

func (e *Engine) validTrack(t int) bool {
	return t >= 0 && t < len(e.state.Tracks)
}

func (e *Engine) apply(cmd Command) {
	switch c := cmd.(type) {
	case Play:
		if e.clock.playing {
			return
		}
		if e.paused {
			e.clock.playing = true
		} else {
			if e.state.Mode == SongMode && e.state.Arrangement.Len() > 0 {
				e.state.SongPosition = 0
				e.state.SongRepeat = 0
				e.loadBankPattern(e.state.Arrangement.Entries[0].Pattern)
			}
			e.clock.play()
		}
		e.paused = false
		e.state.Playing = true

	case Pause:
		if e.clock.playing {
			e.clock.pause()
			e.paused = true
			e.state.Playing = false
		}

	case Stop:
		e.clock.stop()
		e.paused = false
		e.state.Playing = false
		e.state.CurrentStep = 0
		e.state.SongPosition = 0
		e.state.SongRepeat = 0
		for _, src := range e.sources {
			src.Stop()
		}
		if e.pendingPattern >= 0 {
			e.loadBankPattern(e.pendingPattern)
			e.pendingPattern = -1
		}

	case SetBpm:
		e.clock.setBpm(c.Bpm)
		e.state.Bpm = e.clock.bpm

	case ToggleStep:
		e.state.Pattern.Toggle(c.Track, c.Step)

	case SetStepNote:
		e.state.Pattern.SetNote(c.Track, c.Step, c.Note)

	case ClearTrack:
		if e.validTrack(c.Track) {
			e.state.Pattern.ClearTrack(c.Track, e.state.Tracks[c.Track].DefaultNote)
		}

	case FillTrack:
		if e.validTrack(c.Track) {
			note := c.Note
			if note == 0 {
				note = e.state.Tracks[c.Track].DefaultNote
			}
			e.state.Pattern.FillTrack(c.Track, note)
		}

	case SetTrackParam:
		if e.validTrack(c.Track) && e.sources[c.Track].SetParam(c.Key, c.Value) {
			if v, ok := e.sources[c.Track].Param(c.Key); ok {
				e.state.Tracks[c.Track].Params[c.Key] = v
			}
		}

	case SetTrackVolume:
		if e.validTrack(c.Track) {
			e.state.Tracks[c.Track].Volume = clamp(c.Volume, 0, 1)
		}

	case SetTrackPan:
		if e.validTrack(c.Track) {
			e.state.Tracks[c.Track].Pan = clamp(c.Pan, -1, 1)
		}

	case ToggleMute:
		if e.validTrack(c.Track) {
			e.state.Tracks[c.Track].Mute = !e.state.Tracks[c.Track].Mute
		}

	case ToggleSolo:
		if e.validTrack(c.Track) {
			e.state.Tracks[c.Track].Solo = !e.state.Tracks[c.Track].Solo
		}

	case SetFxParam:
		if e.validTrack(c.Track) {
			e.chains[c.Track].setParam(&e.state.Tracks[c.Track].Fx, c.Key, c.Value)
		}

	case SetFxFilterType:
		if e.validTrack(c.Track) {
			e.chains[c.Track].filter.setType(c.Type)
			e.state.Tracks[c.Track].Fx.FilterType = c.Type
		}

	case ToggleFxEnabled:
		if e.validTrack(c.Track) {
			chain := e.chains[c.Track]
			fx := &e.state.Tracks[c.Track].Fx
			switch c.Fx {
			case FxFilter:
				chain.filterOn = !chain.filterOn
				fx.FilterEnabled = chain.filterOn
			case FxDistortion:
				chain.distOn = !chain.distOn
				fx.DistEnabled = chain.distOn
			case FxDelay:
				chain.delayOn = !chain.delayOn
				fx.DelayEnabled = chain.delayOn
			}
		}

	case SetMasterFxParam:
		min, max, _, ok := MasterFxParamRange(c.Key)
		if !ok {
			return
		}
		v := clamp(c.Value, min, max)
		switch c.Key {
		case "reverb_decay":
			e.reverb.setDecay(v)
			e.state.MasterFx.ReverbDecay = v
		case "reverb_mix":
			e.reverb.setMix(v)
			e.state.MasterFx.ReverbMix = v
		case "reverb_damping":
			e.reverb.setDamping(v)
			e.state.MasterFx.ReverbDamping = v
		}

	case ToggleMasterFxEnabled:
		e.state.MasterFx.ReverbEnabled = !e.state.MasterFx.ReverbEnabled

	case SelectPattern:
		index := c.Pattern
		if index < 0 || index >= NumPatterns {
			return
		}
		if e.clock.playing {
			e.pendingPattern = index
		} else {
			e.loadBankPattern(index)
			e.pendingPattern = -1
		}

	case CopyPattern:
		if c.From < 0 || c.From >= NumPatterns || c.To < 0 || c.To >= NumPatterns {
			return
		}
		e.state.Bank.Patterns[e.state.CurrentPattern] = e.state.Pattern.Clone()
		e.state.Bank.Patterns[c.To] = e.state.Bank.Patterns[c.From].Clone()
		if c.To == e.state.CurrentPattern {
			e.state.Pattern = e.state.Bank.Patterns[c.To].Clone()
		}

	case ClearPattern:
		if c.Pattern < 0 || c.Pattern >= NumPatterns {
			return
		}
		empty := NewPattern(e.defaultNotes())
		e.state.Bank.Patterns[c.Pattern] = empty
		if c.Pattern == e.state.CurrentPattern {
			e.state.Pattern = empty.Clone()
		}

	case SetPlaybackMode:
		e.state.Mode = c.Mode

	case AppendArrangement:
		e.state.Arrangement.Append(c.Pattern, c.Repeats)

	case InsertArrangement:
		e.state.Arrangement.Insert(c.Index, c.Pattern, c.Repeats)

	case RemoveArrangement:
		e.state.Arrangement.Remove(c.Index)
		e.clampSongPosition()

	case SetArrangementEntry:
		e.state.Arrangement.SetEntry(c.Index, c.Pattern, c.Repeats)

	case ClearArrangement:
		e.state.Arrangement.Clear()
		e.state.SongPosition = 0
		e.state.SongRepeat = 0

	case AddTrack:
		e.addTrack(c.Kind, c.Name)

	case RemoveTrack:
		e.removeTrack(c.Track)

	case LoadSample:
		e.loadSample(c.Track, c.Buffer, c.Path)

	case PreviewSample:
		e.preview = c.Buffer
		e.previewPos = 0

	case LoadProject:
		if c.State == nil {
			return
		}
		e.clock.stop()
		for _, src := range e.sources {
			src.Stop()
		}
		e.installState(c.State.Clone())
	}
}

func (e *Engine) clampSongPosition() {
	if n := e.state.Arrangement.Len(); e.state.SongPosition >= n {
		e.state.SongPosition = 0
		e.state.SongRepeat = 0
	}
}

func (e *Engine) defaultNotes() []uint8 {
	notes := make([]uint8, len(e.state.Tracks))
	for i, t := range e.state.Tracks {
		notes[i] = t.DefaultNote
	}
	return notes
}

// addTrack appends a track of the given kind. Refused while playing so the
// track list cannot shift under active triggers.
func (e *Engine) addTrack(kind SynthKind, name string) {
	if e.clock.playing {
		log.Println("cannot add a track while playing")
		return
	}
	track := newTrackState(kind)
	if name != "" {
		track.Name = name
	}
	e.state.Tracks = append(e.state.Tracks, track)
	e.sources = append(e.sources, newSource(kind, e.sampleRate, track.Params))
	chain := newTrackFxChain(e.sampleRate)
	chain.configure(track.Fx)
	e.chains = append(e.chains, chain)

	e.state.Pattern.AddTrack(track.DefaultNote)
	for i := range e.state.Bank.Patterns {
		e.state.Bank.Patterns[i].AddTrack(track.DefaultNote)
	}
}

func (e *Engine) removeTrack(track int) {
	if e.clock.playing {
		log.Println("cannot remove a track while playing")
		return
	}
	if !e.validTrack(track) || len(e.state.Tracks) == 1 {
		return
	}
	e.state.Tracks = append(e.state.Tracks[:track], e.state.Tracks[track+1:]...)
	e.sources = append(e.sources[:track], e.sources[track+1:]...)
	e.chains = append(e.chains[:track], e.chains[track+1:]...)

	e.state.Pattern.RemoveTrack(track)
	for i := range e.state.Bank.Patterns {
		e.state.Bank.Patterns[i].RemoveTrack(track)
	}
}

// loadSample installs decoded PCM on a track, converting it to a sampler in
// place when it is a synth track.
func (e *Engine) loadSample(track int, buf []float64, path string) {
	if !e.validTrack(track) {
		return
	}
	t := &e.state.Tracks[track]
	if t.Kind != Sampler {
		t.Kind = Sampler
		t.Name = Sampler.String()
		t.DefaultNote = Sampler.DefaultNote()
		t.Params = defaultParams(Sampler)
		e.sources[track] = newSource(Sampler, e.sampleRate, t.Params)
	}
	e.sources[track].LoadBuffer(buf, path)
	t.SamplePath = path
}

func isAudible(mute, solo, anySolo bool) bool {
	if anySolo {
		return solo
	}
	return !mute
}

// panGains implements an equal-power pan law over [-1,1].
func panGains(pan float64) (float64, float64) {
	angle := (pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}

// softClip passes |x| <= 1 through and squashes anything beyond toward +-1.
func softClip(x float64) float64 {
	if x > 1 {
		return 1 - 0.5*math.Exp(-(x-1))
	}
	if x < -1 {
		return -(1 - 0.5*math.Exp(x+1))
	}
	return x
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
