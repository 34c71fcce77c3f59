package audio

// clock turns a stream of per-sample ticks into sixteenth-note step
// triggers. It is owned exclusively by the engine's render loop.
type clock struct {
	bpm            float64
	sampleRate     float64
	samplesPerStep float64
	counter        float64
	step           int
	playing        bool
	wrapped        bool
}

func newClock(sampleRate, bpm float64) clock {
	c := clock{sampleRate: sampleRate}
	c.setBpm(bpm)
	return c
}

// setBpm clamps to [60,200] and recomputes the step length: one beat is four
// sixteenth notes.
func (c *clock) setBpm(bpm float64) {
	if bpm < 60 {
		bpm = 60
	}
	if bpm > 200 {
		bpm = 200
	}
	c.bpm = bpm
	c.samplesPerStep = c.sampleRate * 60 / bpm / 4
}

// tick is called once per output sample. It returns the step to trigger and
// whether a trigger fired. The fractional remainder is carried over so steps
// stay sample-accurate at any bpm.
func (c *clock) tick() (int, bool) {
	if !c.playing {
		return 0, false
	}
	c.counter++
	if c.counter >= c.samplesPerStep {
		c.counter -= c.samplesPerStep
		step := c.step
		c.step = (c.step + 1) % Steps
		if step == Steps-1 {
			c.wrapped = true
		}
		return step, true
	}
	return 0, false
}

// takePatternWrap consumes the one-shot flag set when the step counter wraps
// from 15 back to 0.
func (c *clock) takePatternWrap() bool {
	w := c.wrapped
	c.wrapped = false
	return w
}

// play arms the counter so step 0 fires on the very next tick.
func (c *clock) play() {
	if !c.playing {
		c.playing = true
		c.counter = c.samplesPerStep
	}
}

func (c *clock) stop() {
	c.playing = false
	c.step = 0
	c.counter = 0
	c.wrapped = false
}

// pause freezes the transport without resetting position.
func (c *clock) pause() {
	c.playing = false
}
