package audio

// delay is a circular-buffer delay line sized for 500ms. The read position
// is linearly interpolated and eased toward the target time so time changes
// do not click.
type delay struct {
	buffer     []float64
	writePos   int
	sampleRate float64
	timeMs     float64
	feedback   float64
	mix        float64

	currentDelay float64 // samples
	targetDelay  float64
}

func newDelay(sampleRate float64) *delay {
	return &delay{
		buffer:       make([]float64, int(sampleRate*0.5)+1),
		sampleRate:   sampleRate,
		timeMs:       200,
		feedback:     0.3,
		mix:          0.2,
		currentDelay: sampleRate * 0.2,
		targetDelay:  sampleRate * 0.2,
	}
}

func (d *delay) setTime(ms float64) {
	if ms < 10 {
		ms = 10
	}
	if ms > 500 {
		ms = 500
	}
	d.timeMs = ms
	d.targetDelay = d.sampleRate * ms / 1000
}

func (d *delay) setFeedback(fb float64) {
	if fb < 0 {
		fb = 0
	}
	if fb > 0.9 {
		fb = 0.9
	}
	d.feedback = fb
}

func (d *delay) setMix(mix float64) {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	d.mix = mix
}

func (d *delay) process(input float64) float64 {
	const smooth = 0.001
	d.currentDelay += (d.targetDelay - d.currentDelay) * smooth

	readPos := float64(d.writePos) - d.currentDelay
	if readPos < 0 {
		readPos += float64(len(d.buffer))
	}
	idx := int(readPos)
	frac := readPos - float64(idx)
	i0 := idx % len(d.buffer)
	i1 := (idx + 1) % len(d.buffer)
	delayed := d.buffer[i0]*(1-frac) + d.buffer[i1]*frac

	d.buffer[d.writePos] = input + delayed*d.feedback
	d.writePos = (d.writePos + 1) % len(d.buffer)

	return input*(1-d.mix) + delayed*d.mix
}
