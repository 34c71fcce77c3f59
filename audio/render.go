package audio

import (
	"fmt"
	"os"

	wav "github.com/youpy/go-wav"
)

const (
	renderSampleRate = 44100.0
	renderTailSecs   = 1.0
)

// offlineRenderer mirrors the real-time render path against a fixed state
// snapshot. It shares the engine's DSP but owns its own clock and chains, so
// an export never disturbs live playback.
type offlineRenderer struct {
	state   *SequencerState
	clock   clock
	sources []SoundSource
	chains  []*trackFxChain
	reverb  *stereoReverb
}

// newOfflineRenderer builds a renderer from a snapshot. buffers maps track
// index to decoded sample data for sampler tracks; the caller resolves and
// decodes paths.
func newOfflineRenderer(state *SequencerState, buffers map[int][]float64) *offlineRenderer {
	r := &offlineRenderer{
		state:   state,
		clock:   newClock(renderSampleRate, state.Bpm),
		sources: make([]SoundSource, len(state.Tracks)),
		chains:  make([]*trackFxChain, len(state.Tracks)),
		reverb:  newStereoReverb(renderSampleRate),
	}
	for i, track := range state.Tracks {
		r.sources[i] = newSource(track.Kind, renderSampleRate, track.Params)
		if buf, ok := buffers[i]; ok {
			r.sources[i].LoadBuffer(buf, track.SamplePath)
		}
		r.chains[i] = newTrackFxChain(renderSampleRate)
		r.chains[i].configure(track.Fx)
	}
	configureReverb(r.reverb, state.MasterFx)
	return r
}

// RenderPattern renders one loop of the bank pattern at index plus a decay
// tail, returning interleaved-free stereo channels.
func RenderPattern(state *SequencerState, buffers map[int][]float64, index int) ([]float64, []float64) {
	r := newOfflineRenderer(state, buffers)
	return r.render(Steps, func() *Pattern { return state.Bank.Get(index) }, nil)
}

// RenderSong renders the full arrangement plus a decay tail. An empty
// arrangement falls back to one loop of the current pattern.
func RenderSong(state *SequencerState, buffers map[int][]float64) ([]float64, []float64) {
	r := newOfflineRenderer(state, buffers)

	if state.Arrangement.Len() == 0 {
		return r.render(Steps, func() *Pattern { return state.Bank.Get(state.CurrentPattern) }, nil)
	}

	totalSteps := 0
	for _, entry := range state.Arrangement.Entries {
		totalSteps += entry.Repeats * Steps
	}

	pos, repeat := 0, 0
	current := state.Arrangement.Entries[0].Pattern
	onWrap := func() {
		entry := state.Arrangement.Entries[pos]
		repeat++
		if repeat >= entry.Repeats {
			repeat = 0
			pos++
			if pos < state.Arrangement.Len() {
				current = state.Arrangement.Entries[pos].Pattern
			}
		}
	}
	return r.render(totalSteps, func() *Pattern { return state.Bank.Get(current) }, onWrap)
}

// render produces totalSteps of triggered content followed by a silent-input
// tail so delay and reverb decays are captured.
func (r *offlineRenderer) render(totalSteps int, pattern func() *Pattern, onWrap func()) ([]float64, []float64) {
	samplesPerStep := renderSampleRate * 60 / r.state.Bpm / 4
	contentSamples := int(float64(totalSteps) * samplesPerStep)
	totalSamples := contentSamples + int(renderSampleRate*renderTailSecs)

	left := make([]float64, totalSamples)
	right := make([]float64, totalSamples)

	r.clock.play()
	for i := 0; i < totalSamples; i++ {
		step, fired := r.clock.tick()
		if fired && i < contentSamples {
			for _, src := range r.sources {
				src.StepTick()
			}
			pat := pattern()
			for t := range r.sources {
				cell := pat.Step(t, step)
				if cell.Active {
					r.sources[t].Trigger(cell.Note)
				}
			}
		}
		if r.clock.takePatternWrap() && i < contentSamples && onWrap != nil {
			onWrap()
		}

		left[i], right[i] = r.renderFrame()
	}
	return left, right
}

func (r *offlineRenderer) renderFrame() (float64, float64) {
	anySolo := false
	for _, t := range r.state.Tracks {
		if t.Solo {
			anySolo = true
			break
		}
	}

	var left, right float64
	for t, src := range r.sources {
		sample := r.chains[t].process(src.NextSample())
		track := r.state.Tracks[t]
		if !isAudible(track.Mute, track.Solo, anySolo) {
			continue
		}
		sample *= track.Volume
		gl, gr := panGains(track.Pan)
		left += sample * gl
		right += sample * gr
	}

	if r.state.MasterFx.ReverbEnabled {
		left, right = r.reverb.process(left, right)
	}
	return softClip(left), softClip(right)
}

// WriteWAV writes stereo channels as a 16-bit 44.1 kHz WAV file.
func WriteWAV(path string, left, right []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(len(left)), 2, uint32(renderSampleRate), 16)
	samples := make([]wav.Sample, len(left))
	for i := range left {
		samples[i].Values[0] = int(left[i] * 32767)
		samples[i].Values[1] = int(right[i] * 32767)
	}
	if err := w.WriteSamples(samples); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
