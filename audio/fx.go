package audio

import "fmt"

// FxType names one of the per-track effect units.
type FxType int

const (
	FxFilter FxType = iota
	FxDistortion
	FxDelay
)

func (t FxType) String() string {
	switch t {
	case FxDistortion:
		return "distortion"
	case FxDelay:
		return "delay"
	}
	return "filter"
}

func FxTypeFromName(name string) (FxType, error) {
	switch name {
	case "filter":
		return FxFilter, nil
	case "distortion", "dist":
		return FxDistortion, nil
	case "delay":
		return FxDelay, nil
	}
	return 0, fmt.Errorf("unknown effect: %s", name)
}

// FxParamRange returns (min, max, default) for a track FX parameter key, or
// false for an unknown key.
func FxParamRange(key string) (float64, float64, float64, bool) {
	switch key {
	case "filter_cutoff":
		return 20, 20000, 2000, true
	case "filter_resonance":
		return 0, 0.95, 0.2, true
	case "dist_drive":
		return 0, 1, 0.1, true
	case "dist_mix":
		return 0, 1, 0.5, true
	case "delay_time":
		return 10, 500, 200, true
	case "delay_feedback":
		return 0, 0.9, 0.3, true
	case "delay_mix":
		return 0, 1, 0.2, true
	}
	return 0, 0, 0, false
}

// MasterFxParamRange returns (min, max, default) for a master FX parameter.
func MasterFxParamRange(key string) (float64, float64, float64, bool) {
	switch key {
	case "reverb_decay":
		return 0.1, 0.95, 0.5, true
	case "reverb_mix":
		return 0, 1, 0.3, true
	case "reverb_damping":
		return 0, 1, 0.5, true
	}
	return 0, 0, 0, false
}

// TrackFxState is the externally visible snapshot of one track's FX chain.
type TrackFxState struct {
	FilterEnabled   bool       `json:"filter_enabled"`
	FilterType      FilterType `json:"filter_type"`
	FilterCutoff    float64    `json:"filter_cutoff"`
	FilterResonance float64    `json:"filter_resonance"`
	DistEnabled     bool       `json:"dist_enabled"`
	DistDrive       float64    `json:"dist_drive"`
	DistMix         float64    `json:"dist_mix"`
	DelayEnabled    bool       `json:"delay_enabled"`
	DelayTime       float64    `json:"delay_time"`
	DelayFeedback   float64    `json:"delay_feedback"`
	DelayMix        float64    `json:"delay_mix"`
}

func DefaultTrackFxState() TrackFxState {
	return TrackFxState{
		FilterType:      LowPass,
		FilterCutoff:    2000,
		FilterResonance: 0.2,
		DistDrive:       0.1,
		DistMix:         0.5,
		DelayTime:       200,
		DelayFeedback:   0.3,
		DelayMix:        0.2,
	}
}

// MasterFxState is the externally visible snapshot of the master bus.
type MasterFxState struct {
	ReverbEnabled bool    `json:"reverb_enabled"`
	ReverbDecay   float64 `json:"reverb_decay"`
	ReverbMix     float64 `json:"reverb_mix"`
	ReverbDamping float64 `json:"reverb_damping"`
}

func DefaultMasterFxState() MasterFxState {
	return MasterFxState{
		ReverbDecay:   0.5,
		ReverbMix:     0.3,
		ReverbDamping: 0.5,
	}
}

// trackFxChain owns one track's DSP instances. Processing order is fixed:
// filter -> distortion -> delay.
type trackFxChain struct {
	filter   *svfFilter
	dist     *distortion
	delay    *delay
	filterOn bool
	distOn   bool
	delayOn  bool
}

func newTrackFxChain(sampleRate float64) *trackFxChain {
	return &trackFxChain{
		filter: newSvfFilter(sampleRate),
		dist:   newDistortion(),
		delay:  newDelay(sampleRate),
	}
}

func (c *trackFxChain) process(input float64) float64 {
	s := input
	if c.filterOn {
		s = c.filter.process(s)
	}
	if c.distOn {
		s = c.dist.process(s)
	}
	if c.delayOn {
		s = c.delay.process(s)
	}
	return s
}

// setParam applies a clamped FX parameter to the chain and mirrors it into
// the snapshot state. Unknown keys report false.
func (c *trackFxChain) setParam(state *TrackFxState, key string, value float64) bool {
	min, max, _, ok := FxParamRange(key)
	if !ok {
		return false
	}
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	switch key {
	case "filter_cutoff":
		c.filter.setCutoff(value)
		state.FilterCutoff = value
	case "filter_resonance":
		c.filter.setResonance(value)
		state.FilterResonance = value
	case "dist_drive":
		c.dist.setDrive(value)
		state.DistDrive = value
	case "dist_mix":
		c.dist.setMix(value)
		state.DistMix = value
	case "delay_time":
		c.delay.setTime(value)
		state.DelayTime = value
	case "delay_feedback":
		c.delay.setFeedback(value)
		state.DelayFeedback = value
	case "delay_mix":
		c.delay.setMix(value)
		state.DelayMix = value
	}
	return true
}

// configure brings the whole chain in line with a snapshot, used on project
// load and by the offline renderer.
func (c *trackFxChain) configure(state TrackFxState) {
	c.filterOn = state.FilterEnabled
	c.filter.setType(state.FilterType)
	c.filter.setCutoff(state.FilterCutoff)
	c.filter.setResonance(state.FilterResonance)
	c.distOn = state.DistEnabled
	c.dist.setDrive(state.DistDrive)
	c.dist.setMix(state.DistMix)
	c.delayOn = state.DelayEnabled
	c.delay.setTime(state.DelayTime)
	c.delay.setFeedback(state.DelayFeedback)
	c.delay.setMix(state.DelayMix)
}

// configureReverb brings the master reverb in line with a snapshot.
func configureReverb(r *stereoReverb, state MasterFxState) {
	r.setDecay(state.ReverbDecay)
	r.setMix(state.ReverbMix)
	r.setDamping(state.ReverbDamping)
}
