package audio

import "math"

// kickSynth: sine oscillator swept by an exponential pitch envelope, with an
// additive click transient and optional tanh drive.
type kickSynth struct {
	sampleRate float64
	pos        int
	active     bool
	duration   int
	phase      float64
	pitchRatio float64

	pitchStart float64
	pitchEnd   float64
	pitchDecay float64
	ampDecay   float64
	click      float64
	drive      float64
}

func newKickSynth(sampleRate float64) *kickSynth {
	k := &kickSynth{
		sampleRate: sampleRate,
		pitchRatio: 1,
		pitchStart: 150,
		pitchEnd:   50,
		pitchDecay: 8,
		ampDecay:   10,
		click:      0.3,
	}
	k.updateDuration()
	return k
}

// Longer amp decay means a longer tail.
func (k *kickSynth) updateDuration() {
	k.duration = int(k.sampleRate * (0.1 + 0.2*(20-k.ampDecay)/15))
}

func (k *kickSynth) Kind() SynthKind     { return Kick }
func (k *kickSynth) DefaultNote() uint8  { return Kick.DefaultNote() }
func (k *kickSynth) StepTick()           {}
func (k *kickSynth) LoadBuffer([]float64, string) {}

func (k *kickSynth) Trigger(note uint8) {
	k.pos = 0
	k.active = true
	k.phase = 0
	k.pitchRatio = midiToFreq(note) / midiToFreq(k.DefaultNote())
}

func (k *kickSynth) Stop() { k.active = false }

func (k *kickSynth) NextSample() float64 {
	if !k.active {
		return 0
	}
	if k.pos >= k.duration {
		k.active = false
		return 0
	}
	t := float64(k.pos) / k.sampleRate

	// Exponential pitch sweep from pitchStart down to pitchEnd.
	freq := (k.pitchEnd + (k.pitchStart-k.pitchEnd)*math.Exp(-t*k.pitchDecay)) * k.pitchRatio
	k.phase += freq / k.sampleRate
	if k.phase >= 1 {
		k.phase--
	}
	osc := math.Sin(k.phase * 2 * math.Pi)

	amp := math.Exp(-t * k.ampDecay)

	// Attack click lives in the first 5ms.
	var click float64
	if t < 0.005 {
		click = (1 - t/0.005) * k.click
	}

	k.pos++
	sample := (osc + click*math.Sin(t*1000)) * amp * 0.7

	if k.drive > 0 {
		gain := 1 + k.drive*4
		sample = math.Tanh(sample*gain) / math.Tanh(gain)
	}
	return sample
}

func (k *kickSynth) Params() []ParamDef {
	return []ParamDef{
		{Key: "pitch_start", Name: "Pitch Start", Min: 80, Max: 250, Default: 150},
		{Key: "pitch_end", Name: "Pitch End", Min: 30, Max: 80, Default: 50},
		{Key: "pitch_decay", Name: "Pitch Decay", Min: 4, Max: 20, Default: 8},
		{Key: "amp_decay", Name: "Amp Decay", Min: 5, Max: 20, Default: 10},
		{Key: "click", Name: "Click", Min: 0, Max: 1, Default: 0.3},
		{Key: "drive", Name: "Drive", Min: 0, Max: 1, Default: 0},
	}
}

func (k *kickSynth) Param(key string) (float64, bool) {
	switch key {
	case "pitch_start":
		return k.pitchStart, true
	case "pitch_end":
		return k.pitchEnd, true
	case "pitch_decay":
		return k.pitchDecay, true
	case "amp_decay":
		return k.ampDecay, true
	case "click":
		return k.click, true
	case "drive":
		return k.drive, true
	}
	return 0, false
}

func (k *kickSynth) SetParam(key string, value float64) bool {
	v, ok := clampParam(k.Params(), key, value)
	if !ok {
		return false
	}
	switch key {
	case "pitch_start":
		k.pitchStart = v
	case "pitch_end":
		k.pitchEnd = v
	case "pitch_decay":
		k.pitchDecay = v
	case "amp_decay":
		k.ampDecay = v
		k.updateDuration()
	case "click":
		k.click = v
	case "drive":
		k.drive = v
	}
	return true
}
