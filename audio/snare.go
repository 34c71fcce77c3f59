package audio

import "math"

// snareSynth blends a decaying noise burst with a decaying sine body tone.
type snareSynth struct {
	sampleRate float64
	pos        int
	active     bool
	duration   int
	noiseState uint32
	tonePhase  float64
	toneRatio  float64

	toneFreq   float64
	toneDecay  float64
	noiseDecay float64
	toneMix    float64
	snappy     float64
}

func newSnareSynth(sampleRate float64) *snareSynth {
	return &snareSynth{
		sampleRate: sampleRate,
		duration:   int(sampleRate * 0.15),
		noiseState: 12345,
		toneRatio:  1,
		toneFreq:   180,
		toneDecay:  20,
		noiseDecay: 15,
		toneMix:    0.4,
		snappy:     0.6,
	}
}

func (s *snareSynth) Kind() SynthKind    { return Snare }
func (s *snareSynth) DefaultNote() uint8 { return Snare.DefaultNote() }
func (s *snareSynth) StepTick()          {}
func (s *snareSynth) LoadBuffer([]float64, string) {}

func (s *snareSynth) Trigger(note uint8) {
	s.pos = 0
	s.active = true
	s.tonePhase = 0
	s.toneRatio = midiToFreq(note) / midiToFreq(s.DefaultNote())
}

func (s *snareSynth) Stop() { s.active = false }

// Linear congruential generator, cheap enough for the audio thread.
func (s *snareSynth) nextNoise() float64 {
	s.noiseState = s.noiseState*1103515245 + 12345
	return float64(s.noiseState)/float64(math.MaxUint32)*2 - 1
}

func (s *snareSynth) NextSample() float64 {
	if !s.active {
		return 0
	}
	if s.pos >= s.duration {
		s.active = false
		return 0
	}
	t := float64(s.pos) / s.sampleRate

	noise := s.nextNoise() * math.Exp(-t*s.noiseDecay)
	if s.snappy > 0 {
		noise *= 1 + s.snappy*2
	}

	toneAmp := math.Exp(-t * s.toneDecay)
	s.tonePhase += s.toneFreq * s.toneRatio / s.sampleRate
	if s.tonePhase >= 1 {
		s.tonePhase--
	}
	tone := math.Sin(s.tonePhase*2*math.Pi) * toneAmp

	s.pos++
	return (noise*(1-s.toneMix)*0.6 + tone*s.toneMix*0.5) * 0.7
}

func (s *snareSynth) Params() []ParamDef {
	return []ParamDef{
		{Key: "tone_freq", Name: "Tone Freq", Min: 120, Max: 300, Default: 180},
		{Key: "tone_decay", Name: "Tone Decay", Min: 10, Max: 40, Default: 20},
		{Key: "noise_decay", Name: "Noise Decay", Min: 8, Max: 30, Default: 15},
		{Key: "tone_mix", Name: "Tone Mix", Min: 0, Max: 1, Default: 0.4},
		{Key: "snappy", Name: "Snappy", Min: 0, Max: 1, Default: 0.6},
	}
}

func (s *snareSynth) Param(key string) (float64, bool) {
	switch key {
	case "tone_freq":
		return s.toneFreq, true
	case "tone_decay":
		return s.toneDecay, true
	case "noise_decay":
		return s.noiseDecay, true
	case "tone_mix":
		return s.toneMix, true
	case "snappy":
		return s.snappy, true
	}
	return 0, false
}

func (s *snareSynth) SetParam(key string, value float64) bool {
	v, ok := clampParam(s.Params(), key, value)
	if !ok {
		return false
	}
	switch key {
	case "tone_freq":
		s.toneFreq = v
	case "tone_decay":
		s.toneDecay = v
	case "noise_decay":
		s.noiseDecay = v
	case "tone_mix":
		s.toneMix = v
	case "snappy":
		s.snappy = v
	}
	return true
}
