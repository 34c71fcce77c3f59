package audio

import "math"

// distortion is a tanh waveshaper. Drive sets the pre-gain (1..11x) and the
// wet signal is normalized by tanh(gain) so full drive stays near unity peak.
type distortion struct {
	drive float64
	mix   float64
}

func newDistortion() *distortion {
	return &distortion{drive: 0.1, mix: 0.5}
}

func (d *distortion) setDrive(drive float64) {
	if drive < 0 {
		drive = 0
	}
	if drive > 1 {
		drive = 1
	}
	d.drive = drive
}

func (d *distortion) setMix(mix float64) {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	d.mix = mix
}

func (d *distortion) process(input float64) float64 {
	gain := 1 + d.drive*10
	wet := math.Tanh(input*gain) / math.Tanh(gain)
	return input*(1-d.mix) + wet*d.mix
}
