package audio

// stereoReverb is a Schroeder reverb: four parallel damped comb filters per
// channel into two series allpass diffusers, with the right channel's delays
// offset slightly for width.
type stereoReverb struct {
	combL    [4]*combFilter
	combR    [4]*combFilter
	allpassL [2]*allpassFilter
	allpassR [2]*allpassFilter
	decay    float64
	mix      float64
	damping  float64
}

func newStereoReverb(sampleRate float64) *stereoReverb {
	// Prime-ish delay times keep the tail from sounding metallic.
	combMsL := [4]float64{0.0297, 0.0341, 0.0393, 0.0442}
	combMsR := [4]float64{0.0307, 0.0353, 0.0401, 0.0457}
	allpassMsL := [2]float64{0.005, 0.0017}
	allpassMsR := [2]float64{0.0053, 0.0019}

	r := &stereoReverb{decay: 0.5, mix: 0.3, damping: 0.5}
	for i := range r.combL {
		r.combL[i] = newCombFilter(int(sampleRate*combMsL[i]), r.decay, r.damping)
		r.combR[i] = newCombFilter(int(sampleRate*combMsR[i]), r.decay, r.damping)
	}
	for i := range r.allpassL {
		r.allpassL[i] = newAllpassFilter(int(sampleRate * allpassMsL[i]))
		r.allpassR[i] = newAllpassFilter(int(sampleRate * allpassMsR[i]))
	}
	return r
}

func (r *stereoReverb) setDecay(decay float64) {
	if decay < 0.1 {
		decay = 0.1
	}
	if decay > 0.95 {
		decay = 0.95
	}
	r.decay = decay
	for i := range r.combL {
		r.combL[i].feedback = decay
		r.combR[i].feedback = decay
	}
}

func (r *stereoReverb) setMix(mix float64) {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	r.mix = mix
}

func (r *stereoReverb) setDamping(damping float64) {
	if damping < 0 {
		damping = 0
	}
	if damping > 1 {
		damping = 1
	}
	r.damping = damping
	for i := range r.combL {
		r.combL[i].damping = damping
		r.combR[i].damping = damping
	}
}

func (r *stereoReverb) process(left, right float64) (float64, float64) {
	var wetL, wetR float64
	for i := range r.combL {
		wetL += r.combL[i].process(left)
		wetR += r.combR[i].process(right)
	}
	wetL *= 0.25
	wetR *= 0.25

	for i := range r.allpassL {
		wetL = r.allpassL[i].process(wetL)
		wetR = r.allpassR[i].process(wetR)
	}

	outL := left*(1-r.mix) + wetL*r.mix
	outR := right*(1-r.mix) + wetR*r.mix
	return outL, outR
}

// combFilter with a one-pole lowpass in the feedback path.
type combFilter struct {
	buffer    []float64
	pos       int
	feedback  float64
	damping   float64
	dampState float64
}

func newCombFilter(delay int, feedback, damping float64) *combFilter {
	if delay < 1 {
		delay = 1
	}
	return &combFilter{
		buffer:   make([]float64, delay),
		feedback: feedback,
		damping:  damping,
	}
}

func (c *combFilter) process(input float64) float64 {
	delayed := c.buffer[c.pos]
	c.dampState = delayed*(1-c.damping) + c.dampState*c.damping
	c.buffer[c.pos] = input + c.dampState*c.feedback
	c.pos = (c.pos + 1) % len(c.buffer)
	return delayed
}

// allpassFilter for diffusion, fixed 0.5 coefficient.
type allpassFilter struct {
	buffer []float64
	pos    int
}

func newAllpassFilter(delay int) *allpassFilter {
	if delay < 1 {
		delay = 1
	}
	return &allpassFilter{buffer: make([]float64, delay)}
}

func (a *allpassFilter) process(input float64) float64 {
	const coeff = 0.5
	delayed := a.buffer[a.pos]
	output := -input + delayed
	a.buffer[a.pos] = input + delayed*coeff
	a.pos = (a.pos + 1) % len(a.buffer)
	return output
}
