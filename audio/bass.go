package audio

import "math"

// bassSynth: sine/saw blend plus a sub oscillator one octave down, with a
// 10ms linear attack and exponential decay. Frequency follows the triggering
// MIDI note.
type bassSynth struct {
	sampleRate float64
	pos        int
	active     bool
	duration   int
	oscPhase   float64
	subPhase   float64
	activeFreq float64

	frequency float64
	decay     float64
	sawMix    float64
	sub       float64
}

func newBassSynth(sampleRate float64) *bassSynth {
	return &bassSynth{
		sampleRate: sampleRate,
		duration:   int(sampleRate * 0.25),
		frequency:  55,
		activeFreq: 55,
		decay:      6,
		sawMix:     0.2,
	}
}

func (b *bassSynth) Kind() SynthKind    { return Bass }
func (b *bassSynth) DefaultNote() uint8 { return Bass.DefaultNote() }
func (b *bassSynth) StepTick()          {}
func (b *bassSynth) LoadBuffer([]float64, string) {}

func (b *bassSynth) Trigger(note uint8) {
	b.pos = 0
	b.active = true
	b.oscPhase = 0
	b.subPhase = 0
	b.activeFreq = midiToFreq(note)
}

func (b *bassSynth) Stop() { b.active = false }

func (b *bassSynth) NextSample() float64 {
	if !b.active {
		return 0
	}
	if b.pos >= b.duration {
		b.active = false
		return 0
	}
	t := float64(b.pos) / b.sampleRate

	b.oscPhase += b.activeFreq / b.sampleRate
	if b.oscPhase >= 1 {
		b.oscPhase--
	}
	b.subPhase += b.activeFreq * 0.5 / b.sampleRate
	if b.subPhase >= 1 {
		b.subPhase--
	}

	sine := math.Sin(b.oscPhase * 2 * math.Pi)
	saw := b.oscPhase*2 - 1
	subOsc := math.Sin(b.subPhase * 2 * math.Pi)

	main := sine*(1-b.sawMix) + saw*b.sawMix
	osc := main*(1-b.sub*0.5) + subOsc*b.sub*0.5

	const attack = 0.01
	var amp float64
	if t < attack {
		amp = t / attack
	} else {
		amp = math.Exp(-(t - attack) * b.decay)
	}

	b.pos++
	return osc * amp * 0.6
}

func (b *bassSynth) Params() []ParamDef {
	return []ParamDef{
		{Key: "frequency", Name: "Frequency", Min: 30, Max: 120, Default: 55},
		{Key: "decay", Name: "Decay", Min: 3, Max: 12, Default: 6},
		{Key: "saw_mix", Name: "Saw Mix", Min: 0, Max: 1, Default: 0.2},
		{Key: "sub", Name: "Sub", Min: 0, Max: 1, Default: 0},
	}
}

func (b *bassSynth) Param(key string) (float64, bool) {
	switch key {
	case "frequency":
		return b.frequency, true
	case "decay":
		return b.decay, true
	case "saw_mix":
		return b.sawMix, true
	case "sub":
		return b.sub, true
	}
	return 0, false
}

func (b *bassSynth) SetParam(key string, value float64) bool {
	v, ok := clampParam(b.Params(), key, value)
	if !ok {
		return false
	}
	switch key {
	case "frequency":
		b.frequency = v
		b.activeFreq = v
	case "decay":
		b.decay = v
	case "saw_mix":
		b.sawMix = v
	case "sub":
		b.sub = v
	}
	return true
}
