package audio

import (
	"math"
	"testing"
)

func TestSoftClip(t *testing.T) {
	// inside the linear range the signal is untouched
	for _, v := range []float64{0, 0.5, -0.5, 1, -1} {
		if got := softClip(v); got != v {
			t.Errorf("softClip(%v) = %v, want identity", v, got)
		}
	}
	// outside it the output approaches but never exceeds +-1
	for _, v := range []float64{1.5, 2, 10, 100} {
		got := softClip(v)
		if got >= 1 || got <= 0 {
			t.Errorf("softClip(%v) = %v, want in (0, 1)", v, got)
		}
		if neg := softClip(-v); neg != -got {
			t.Errorf("softClip is not symmetric: %v vs %v", got, neg)
		}
	}
	if a, b := softClip(2), softClip(5); b <= a {
		t.Error("softClip should be monotonic above 1")
	}
}

func TestPanGains(t *testing.T) {
	// center: both channels at cos(45 degrees)
	l, r := panGains(0)
	want := math.Sqrt(2) / 2
	if math.Abs(l-want) > 1e-9 || math.Abs(r-want) > 1e-9 {
		t.Errorf("center pan: want %v/%v, got %v/%v", want, want, l, r)
	}
	// hard left
	l, r = panGains(-1)
	if math.Abs(l-1) > 1e-9 || math.Abs(r) > 1e-9 {
		t.Errorf("hard left: got %v/%v", l, r)
	}
	// hard right
	l, r = panGains(1)
	if math.Abs(l) > 1e-9 || math.Abs(r-1) > 1e-9 {
		t.Errorf("hard right: got %v/%v", l, r)
	}
	// equal power everywhere
	for _, pan := range []float64{-0.7, -0.3, 0.2, 0.9} {
		l, r := panGains(pan)
		if p := l*l + r*r; math.Abs(p-1) > 1e-9 {
			t.Errorf("pan %v: power %v, want 1", pan, p)
		}
	}
}

func TestIsAudible(t *testing.T) {
	tests := []struct {
		mute, solo, anySolo bool
		want                bool
	}{
		{false, false, false, true},
		{true, false, false, false},
		{false, false, true, false},
		{false, true, true, true},
		{true, true, true, true}, // solo wins over mute
	}
	for _, test := range tests {
		got := isAudible(test.mute, test.solo, test.anySolo)
		if got != test.want {
			t.Errorf("isAudible(%v, %v, %v) = %v, want %v",
				test.mute, test.solo, test.anySolo, got, test.want)
		}
	}
}

func TestDistortionUnityAtFullScale(t *testing.T) {
	d := newDistortion()
	d.setDrive(0.5)
	d.setMix(1)
	// normalization keeps a full-scale input at full scale
	if got := d.process(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("want 1, got %v", got)
	}
	if got := d.process(0); got != 0 {
		t.Errorf("want 0 for silence, got %v", got)
	}
}

func TestDistortionDryMix(t *testing.T) {
	d := newDistortion()
	d.setDrive(1)
	d.setMix(0)
	if got := d.process(0.3); got != 0.3 {
		t.Errorf("mix 0 should pass dry signal, got %v", got)
	}
}

func TestDelayEcho(t *testing.T) {
	d := newDelay(44100)
	d.setTime(100)
	d.setFeedback(0)
	d.setMix(1)

	// The smoothed delay time starts at the 200ms default, so run some
	// silence through first to let it settle toward 100ms.
	for i := 0; i < 200000; i++ {
		d.process(0)
	}

	d.process(1)
	var echoAt int
	for i := 1; i < 10000; i++ {
		if math.Abs(d.process(0)) > 0.1 {
			echoAt = i
			break
		}
	}
	if echoAt == 0 {
		t.Fatal("no echo within 10000 samples")
	}
	// 100ms at 44.1k is 4410 samples
	if echoAt < 4300 || echoAt > 4520 {
		t.Errorf("echo at %d samples, want near 4410", echoAt)
	}
}

func TestFilterDCResponse(t *testing.T) {
	lp := newSvfFilter(44100)
	lp.setType(LowPass)
	lp.setCutoff(1000)
	var out float64
	for i := 0; i < 10000; i++ {
		out = lp.process(1)
	}
	if math.Abs(out-1) > 0.01 {
		t.Errorf("lowpass should pass DC, settled at %v", out)
	}

	hp := newSvfFilter(44100)
	hp.setType(HighPass)
	hp.setCutoff(1000)
	for i := 0; i < 10000; i++ {
		out = hp.process(1)
	}
	if math.Abs(out) > 0.01 {
		t.Errorf("highpass should block DC, settled at %v", out)
	}
}

func TestFxChainDisabledIsTransparent(t *testing.T) {
	c := newTrackFxChain(44100)
	for _, v := range []float64{0, 0.5, -0.9} {
		if got := c.process(v); got != v {
			t.Errorf("disabled chain altered %v to %v", v, got)
		}
	}
}

func TestFxChainSetParam(t *testing.T) {
	c := newTrackFxChain(44100)
	state := DefaultTrackFxState()

	if !c.setParam(&state, "filter_cutoff", 500) {
		t.Fatal("filter_cutoff not recognized")
	}
	if state.FilterCutoff != 500 {
		t.Errorf("state not mirrored: %v", state.FilterCutoff)
	}
	if c.setParam(&state, "bogus", 1) {
		t.Error("unknown key accepted")
	}

	// clamping
	c.setParam(&state, "delay_feedback", 5)
	if state.DelayFeedback != 0.9 {
		t.Errorf("want feedback clamped to 0.9, got %v", state.DelayFeedback)
	}
}

func TestReverbTail(t *testing.T) {
	r := newStereoReverb(44100)
	r.setMix(1)

	r.process(1, 1)
	var energy float64
	for i := 0; i < 44100; i++ {
		l, rr := r.process(0, 0)
		energy += l*l + rr*rr
	}
	if energy == 0 {
		t.Error("impulse produced no reverb tail")
	}

	// the tail must decay, not blow up
	var late float64
	for i := 0; i < 44100; i++ {
		l, rr := r.process(0, 0)
		late += l*l + rr*rr
	}
	if late >= energy {
		t.Errorf("tail is not decaying: early %v, late %v", energy, late)
	}
}
