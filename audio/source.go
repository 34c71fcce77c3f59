package audio

import (
	"fmt"
	"math"
)

// SynthKind identifies one of the five synthesis algorithms.
type SynthKind int

const (
	Kick SynthKind = iota
	Snare
	HiHat
	Bass
	Sampler
)

func (k SynthKind) String() string {
	switch k {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case HiHat:
		return "hihat"
	case Bass:
		return "bass"
	case Sampler:
		return "sampler"
	}
	return "unknown"
}

// DefaultNote is the MIDI note a fresh track of this kind plays.
func (k SynthKind) DefaultNote() uint8 {
	switch k {
	case Kick:
		return 36 // C2
	case Snare:
		return 50 // D3
	case Bass:
		return 33 // A1, 55 Hz
	}
	return 60 // C4
}

func SynthKindFromName(name string) (SynthKind, error) {
	for _, k := range []SynthKind{Kick, Snare, HiHat, Bass, Sampler} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown synth kind: %s", name)
}

// ParamDef describes one source parameter and its valid range.
type ParamDef struct {
	Key     string
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// SoundSource is the capability surface shared by all five synthesis
// algorithms. NextSample is called exactly once per output sample whether or
// not the source is playing; an idle source returns 0 and does no work.
type SoundSource interface {
	Kind() SynthKind
	DefaultNote() uint8

	// Trigger starts (or retriggers) the source at the given MIDI note.
	Trigger(note uint8)
	NextSample() float64
	// Stop silences the source immediately.
	Stop()
	// StepTick is called once per sequencer step; samplers use it for
	// hold-time countdowns.
	StepTick()

	Params() []ParamDef
	Param(key string) (float64, bool)
	// SetParam clamps value to the parameter's range and applies it,
	// reporting whether the key was recognized.
	SetParam(key string, value float64) bool

	// LoadBuffer installs decoded PCM; a no-op for everything but the
	// sampler.
	LoadBuffer(buf []float64, path string)
}

// newSource builds a source of the given kind, optionally restoring a saved
// parameter snapshot.
func newSource(kind SynthKind, sampleRate float64, params map[string]float64) SoundSource {
	var s SoundSource
	switch kind {
	case Kick:
		s = newKickSynth(sampleRate)
	case Snare:
		s = newSnareSynth(sampleRate)
	case HiHat:
		s = newHiHatSynth(sampleRate)
	case Bass:
		s = newBassSynth(sampleRate)
	default:
		s = newSamplerSynth(sampleRate)
	}
	restoreParams(s, params)
	return s
}

// ParamDefs lists the parameter table for a synth kind.
func ParamDefs(kind SynthKind) []ParamDef {
	return newSource(kind, 44100, nil).Params()
}

// snapshotParams captures the full parameter set of a source as a generic
// key/value blob, the form stored in TrackState and in project files.
func snapshotParams(s SoundSource) map[string]float64 {
	m := make(map[string]float64)
	for _, def := range s.Params() {
		if v, ok := s.Param(def.Key); ok {
			m[def.Key] = v
		}
	}
	return m
}

func restoreParams(s SoundSource, params map[string]float64) {
	for key, value := range params {
		s.SetParam(key, value)
	}
}

// clampParam applies a source's own range table to a value. Unknown keys
// report false and leave nothing changed.
func clampParam(defs []ParamDef, key string, value float64) (float64, bool) {
	for _, def := range defs {
		if def.Key == key {
			if value < def.Min {
				value = def.Min
			}
			if value > def.Max {
				value = def.Max
			}
			return value, true
		}
	}
	return 0, false
}

// midiToFreq converts a MIDI note number to Hz, equal-tempered with A4=440.
func midiToFreq(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a MIDI note number, e.g. 60 -> "C4".
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note/12)-1)
}
