package audio

import "math"

// hiHatSynth: high-pass shaped noise. The open parameter stretches both the
// duration and the decay; the triggering note's distance from the default
// note scales brightness.
type hiHatSynth struct {
	sampleRate      float64
	pos             int
	active          bool
	duration        int
	noiseState      uint32
	filterState     float64
	brightnessRatio float64

	decay float64
	tone  float64
	open  float64
}

func newHiHatSynth(sampleRate float64) *hiHatSynth {
	h := &hiHatSynth{
		sampleRate:      sampleRate,
		noiseState:      67890,
		brightnessRatio: 1,
		decay:           40,
		tone:            0.5,
	}
	h.updateDuration()
	return h
}

func (h *hiHatSynth) updateDuration() {
	base := 0.05
	if h.open > 0.5 {
		base = 0.2
	}
	h.duration = int(h.sampleRate * base * (1 + h.open*3))
}

func (h *hiHatSynth) Kind() SynthKind    { return HiHat }
func (h *hiHatSynth) DefaultNote() uint8 { return HiHat.DefaultNote() }
func (h *hiHatSynth) StepTick()          {}
func (h *hiHatSynth) LoadBuffer([]float64, string) {}

func (h *hiHatSynth) Trigger(note uint8) {
	h.pos = 0
	h.active = true
	h.filterState = 0
	h.brightnessRatio = midiToFreq(note) / midiToFreq(h.DefaultNote())
	h.updateDuration()
}

func (h *hiHatSynth) Stop() { h.active = false }

func (h *hiHatSynth) nextNoise() float64 {
	h.noiseState = h.noiseState*1103515245 + 12345
	return float64(h.noiseState)/float64(math.MaxUint32)*2 - 1
}

func (h *hiHatSynth) NextSample() float64 {
	if !h.active {
		return 0
	}
	if h.pos >= h.duration {
		h.active = false
		return 0
	}
	t := float64(h.pos) / h.sampleRate

	noise := h.nextNoise()

	// One-pole high pass; higher notes push alpha up for a brighter hat.
	alpha := (0.9 + h.tone*0.09) * h.brightnessRatio
	if alpha < 0.5 {
		alpha = 0.5
	}
	if alpha > 0.999 {
		alpha = 0.999
	}
	filtered := noise - h.filterState + alpha*h.filterState
	h.filterState = noise

	effectiveDecay := h.decay * (1 - h.open*0.7)
	amp := math.Exp(-t * effectiveDecay)

	h.pos++
	return filtered * amp * 0.4
}

func (h *hiHatSynth) Params() []ParamDef {
	return []ParamDef{
		{Key: "decay", Name: "Decay", Min: 20, Max: 100, Default: 40},
		{Key: "tone", Name: "Tone", Min: 0, Max: 1, Default: 0.5},
		{Key: "open", Name: "Open", Min: 0, Max: 1, Default: 0},
	}
}

func (h *hiHatSynth) Param(key string) (float64, bool) {
	switch key {
	case "decay":
		return h.decay, true
	case "tone":
		return h.tone, true
	case "open":
		return h.open, true
	}
	return 0, false
}

func (h *hiHatSynth) SetParam(key string, value float64) bool {
	v, ok := clampParam(h.Params(), key, value)
	if !ok {
		return false
	}
	switch key {
	case "decay":
		h.decay = v
	case "tone":
		h.tone = v
	case "open":
		h.open = v
		h.updateDuration()
	}
	return true
}
