package audio

import "math"

type envPhase int

const (
	envOff envPhase = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// samplerSynth plays a loaded mono buffer through an ADSR envelope with
// variable-rate linear-interpolated resampling. The playback window
// [start_point,end_point) bounds the one-shot; an optional loop region keeps
// the head cycling until the envelope enters release. hold_steps forces
// release after that many sequencer steps, so loops can be truncated without
// note-off events.
type samplerSynth struct {
	sampleRate float64
	buffer     []float64
	path       string

	playing     bool
	position    float64
	rate        float64
	env         float64
	phase       envPhase
	phasePos    int
	holdLeft    int
	releaseStep float64

	amplitude  float64
	attack     float64 // ms
	decay      float64 // ms
	sustain    float64
	release    float64 // ms
	startPoint float64 // buffer fraction
	endPoint   float64
	loopStart  float64
	loopEnd    float64 // <= loopStart disables the loop
	pitchShift float64 // semitones
	holdSteps  float64 // 0 disables the hold countdown
}

func newSamplerSynth(sampleRate float64) *samplerSynth {
	return &samplerSynth{
		sampleRate: sampleRate,
		rate:       1,
		amplitude:  0.8,
		decay:      500,
		sustain:    1,
		release:    100,
		endPoint:   1,
	}
}

func (s *samplerSynth) Kind() SynthKind    { return Sampler }
func (s *samplerSynth) DefaultNote() uint8 { return Sampler.DefaultNote() }

func (s *samplerSynth) LoadBuffer(buf []float64, path string) {
	s.buffer = buf
	s.path = path
	s.playing = false
	s.phase = envOff
}

func (s *samplerSynth) Path() string { return s.path }

func (s *samplerSynth) startSamples() float64 { return s.startPoint * float64(len(s.buffer)) }
func (s *samplerSynth) endSamples() float64   { return s.endPoint * float64(len(s.buffer)) }

func (s *samplerSynth) msToSamples(ms float64) float64 { return ms * 0.001 * s.sampleRate }

func (s *samplerSynth) looping() bool { return s.loopEnd > s.loopStart }

func (s *samplerSynth) Trigger(note uint8) {
	if len(s.buffer) == 0 {
		return
	}
	semitones := float64(note) - 60 + s.pitchShift
	s.rate = math.Pow(2, semitones/12)
	s.position = s.startSamples()
	s.playing = true
	s.phasePos = 0
	s.holdLeft = int(s.holdSteps)
	if s.attack > 0 {
		s.env = 0
		s.phase = envAttack
	} else {
		s.env = 1
		s.phase = envDecay
	}
}

func (s *samplerSynth) Stop() {
	s.playing = false
	s.phase = envOff
}

// StepTick counts down the hold limit and forces release when it expires.
func (s *samplerSynth) StepTick() {
	if !s.playing || s.holdSteps <= 0 || s.phase == envRelease {
		return
	}
	s.holdLeft--
	if s.holdLeft <= 0 {
		s.startRelease()
	}
}

func (s *samplerSynth) startRelease() {
	if s.phase == envOff {
		return
	}
	s.phase = envRelease
	s.phasePos = 0
	if n := s.msToSamples(s.release); n > 0 {
		s.releaseStep = s.env / n
	} else {
		s.releaseStep = s.env
	}
}

func (s *samplerSynth) NextSample() float64 {
	if !s.playing || len(s.buffer) == 0 {
		return 0
	}

	end := s.endSamples()
	if end > float64(len(s.buffer)) {
		end = float64(len(s.buffer))
	}
	if s.position >= end {
		s.Stop()
		return 0
	}

	idx := int(s.position)
	frac := s.position - float64(idx)
	s0 := s.buffer[idx]
	s1 := s0
	if idx+1 < len(s.buffer) {
		s1 = s.buffer[idx+1]
	}
	raw := s0 + (s1-s0)*frac

	s.position += s.rate

	// While held, the loop region keeps the play head cycling. Once the
	// envelope is releasing, the head plays through to the window end.
	if s.looping() && s.phase != envRelease {
		loopEnd := s.loopEnd * float64(len(s.buffer))
		if s.position >= loopEnd {
			s.position = s.loopStart * float64(len(s.buffer))
		}
	}

	s.phasePos++
	switch s.phase {
	case envOff:
		return 0
	case envAttack:
		n := s.msToSamples(s.attack)
		if n <= 0 {
			s.env = 1
			s.advancePhase(envDecay)
			break
		}
		s.env = float64(s.phasePos) / n
		if s.env >= 1 {
			s.env = 1
			s.advancePhase(envDecay)
		}
	case envDecay:
		n := s.msToSamples(s.decay)
		if n <= 0 {
			s.env = s.sustain
			s.advancePhase(envSustain)
			break
		}
		s.env = 1 - (1-s.sustain)*math.Min(float64(s.phasePos)/n, 1)
		if float64(s.phasePos) >= n {
			s.env = s.sustain
			s.advancePhase(envSustain)
		}
	case envSustain:
		s.env = s.sustain
		if s.sustain <= 0 {
			s.Stop()
			return 0
		}
		// One-shots without a loop or hold limit run straight into
		// release so short sustain settings do not ring forever.
		if !s.looping() && s.holdSteps <= 0 && s.sustain < 1 {
			s.startRelease()
		}
	case envRelease:
		s.env -= s.releaseStep
		if s.env <= 0 {
			s.Stop()
			return 0
		}
	}

	return raw * s.env * s.amplitude
}

func (s *samplerSynth) advancePhase(p envPhase) {
	s.phase = p
	s.phasePos = 0
}

func (s *samplerSynth) Params() []ParamDef {
	return []ParamDef{
		{Key: "amplitude", Name: "Amplitude", Min: 0, Max: 1, Default: 0.8},
		{Key: "attack", Name: "Attack (ms)", Min: 0, Max: 50, Default: 0},
		{Key: "decay", Name: "Decay (ms)", Min: 10, Max: 2000, Default: 500},
		{Key: "sustain", Name: "Sustain", Min: 0, Max: 1, Default: 1},
		{Key: "release", Name: "Release (ms)", Min: 10, Max: 2000, Default: 100},
		{Key: "start_point", Name: "Start Point", Min: 0, Max: 1, Default: 0},
		{Key: "end_point", Name: "End Point", Min: 0, Max: 1, Default: 1},
		{Key: "loop_start", Name: "Loop Start", Min: 0, Max: 1, Default: 0},
		{Key: "loop_end", Name: "Loop End", Min: 0, Max: 1, Default: 0},
		{Key: "pitch_shift", Name: "Pitch Shift", Min: -24, Max: 24, Default: 0},
		{Key: "hold_steps", Name: "Hold Steps", Min: 0, Max: 16, Default: 0},
	}
}

func (s *samplerSynth) Param(key string) (float64, bool) {
	switch key {
	case "amplitude":
		return s.amplitude, true
	case "attack":
		return s.attack, true
	case "decay":
		return s.decay, true
	case "sustain":
		return s.sustain, true
	case "release":
		return s.release, true
	case "start_point":
		return s.startPoint, true
	case "end_point":
		return s.endPoint, true
	case "loop_start":
		return s.loopStart, true
	case "loop_end":
		return s.loopEnd, true
	case "pitch_shift":
		return s.pitchShift, true
	case "hold_steps":
		return s.holdSteps, true
	}
	return 0, false
}

func (s *samplerSynth) SetParam(key string, value float64) bool {
	v, ok := clampParam(s.Params(), key, value)
	if !ok {
		return false
	}
	switch key {
	case "amplitude":
		s.amplitude = v
	case "attack":
		s.attack = v
	case "decay":
		s.decay = v
	case "sustain":
		s.sustain = v
	case "release":
		s.release = v
	case "start_point":
		s.startPoint = v
	case "end_point":
		s.endPoint = v
	case "loop_start":
		s.loopStart = v
	case "loop_end":
		s.loopEnd = v
	case "pitch_shift":
		s.pitchShift = v
	case "hold_steps":
		s.holdSteps = float64(int(v))
	}
	return true
}
