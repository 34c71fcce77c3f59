package audio

const (
	// Steps is the number of sixteenth-note slots in a pattern row.
	Steps = 16
	// NumPatterns is the fixed size of the pattern bank.
	NumPatterns = 16
	// MaxArrangementEntries caps the song arrangement length.
	MaxArrangementEntries = 64
)

// PlaybackMode selects between looping the live pattern and following the
// arrangement.
type PlaybackMode int

const (
	PatternMode PlaybackMode = iota
	SongMode
)

func (m PlaybackMode) String() string {
	if m == SongMode {
		return "song"
	}
	return "pattern"
}

// StepData is one cell in a pattern. The note is kept when the step is
// toggled off, so re-activating a step restores its pitch.
type StepData struct {
	Active bool  `json:"active"`
	Note   uint8 `json:"note"`
}

// Pattern is a tracks x 16 grid of steps.
type Pattern struct {
	Tracks [][Steps]StepData `json:"tracks"`
}

// NewPattern creates an empty pattern with one row per default note.
func NewPattern(defaultNotes []uint8) Pattern {
	var p Pattern
	for _, note := range defaultNotes {
		p.AddTrack(note)
	}
	return p
}

func (p *Pattern) NumTracks() int { return len(p.Tracks) }

// AddTrack appends an inactive row using note for every step.
func (p *Pattern) AddTrack(note uint8) {
	var row [Steps]StepData
	for i := range row {
		row[i] = StepData{Note: note}
	}
	p.Tracks = append(p.Tracks, row)
}

// RemoveTrack deletes a row. The last remaining row is never removed.
func (p *Pattern) RemoveTrack(track int) {
	if len(p.Tracks) > 1 && track >= 0 && track < len(p.Tracks) {
		p.Tracks = append(p.Tracks[:track], p.Tracks[track+1:]...)
	}
}

// Toggle flips a step's active flag in place, preserving its note.
func (p *Pattern) Toggle(track, step int) {
	if p.inRange(track, step) {
		p.Tracks[track][step].Active = !p.Tracks[track][step].Active
	}
}

// SetNote sets the MIDI note for a step, clamped to 0-127.
func (p *Pattern) SetNote(track, step int, note uint8) {
	if p.inRange(track, step) {
		if note > 127 {
			note = 127
		}
		p.Tracks[track][step].Note = note
	}
}

// Step returns the cell at track/step, or an inactive C4 cell when out of
// range.
func (p *Pattern) Step(track, step int) StepData {
	if p.inRange(track, step) {
		return p.Tracks[track][step]
	}
	return StepData{Note: 60}
}

// ClearTrack resets all steps of a row to inactive at the given note.
func (p *Pattern) ClearTrack(track int, note uint8) {
	p.setAll(track, StepData{Active: false, Note: note})
}

// FillTrack activates all steps of a row at the given note.
func (p *Pattern) FillTrack(track int, note uint8) {
	p.setAll(track, StepData{Active: true, Note: note})
}

func (p *Pattern) setAll(track int, cell StepData) {
	if track >= 0 && track < len(p.Tracks) {
		for step := range p.Tracks[track] {
			p.Tracks[track][step] = cell
		}
	}
}

func (p *Pattern) inRange(track, step int) bool {
	return track >= 0 && track < len(p.Tracks) && step >= 0 && step < Steps
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	tracks := make([][Steps]StepData, len(p.Tracks))
	copy(tracks, p.Tracks)
	return Pattern{Tracks: tracks}
}

// PatternBank holds the fixed set of 16 patterns a project can address.
type PatternBank struct {
	Patterns [NumPatterns]Pattern `json:"patterns"`
}

// NewPatternBank creates a bank of empty patterns, one row per default note.
func NewPatternBank(defaultNotes []uint8) PatternBank {
	var b PatternBank
	for i := range b.Patterns {
		b.Patterns[i] = NewPattern(defaultNotes)
	}
	return b
}

// Get returns the pattern at index, clamping into range.
func (b *PatternBank) Get(index int) *Pattern {
	if index < 0 {
		index = 0
	}
	if index >= NumPatterns {
		index = NumPatterns - 1
	}
	return &b.Patterns[index]
}

// HasContent reports whether any step in the pattern at index is active.
func (b *PatternBank) HasContent(index int) bool {
	if index < 0 || index >= NumPatterns {
		return false
	}
	for _, row := range b.Patterns[index].Tracks {
		for _, cell := range row {
			if cell.Active {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy.
func (b PatternBank) Clone() PatternBank {
	var c PatternBank
	for i := range b.Patterns {
		c.Patterns[i] = b.Patterns[i].Clone()
	}
	return c
}

// ArrangementEntry references a bank slot with a repeat count. Fields are
// clamped at construction so an entry is always valid.
type ArrangementEntry struct {
	Pattern int `json:"pattern"` // 0-15
	Repeats int `json:"repeats"` // 1-16
}

func NewArrangementEntry(pattern, repeats int) ArrangementEntry {
	if pattern < 0 {
		pattern = 0
	}
	if pattern >= NumPatterns {
		pattern = NumPatterns - 1
	}
	if repeats < 1 {
		repeats = 1
	}
	if repeats > 16 {
		repeats = 16
	}
	return ArrangementEntry{Pattern: pattern, Repeats: repeats}
}

// Arrangement is an ordered sequence of up to 64 pattern references.
type Arrangement struct {
	Entries []ArrangementEntry `json:"entries"`
}

func (a *Arrangement) Len() int { return len(a.Entries) }

func (a *Arrangement) Append(pattern, repeats int) {
	if len(a.Entries) < MaxArrangementEntries {
		a.Entries = append(a.Entries, NewArrangementEntry(pattern, repeats))
	}
}

func (a *Arrangement) Insert(position, pattern, repeats int) {
	if len(a.Entries) >= MaxArrangementEntries || position < 0 || position > len(a.Entries) {
		return
	}
	entry := NewArrangementEntry(pattern, repeats)
	a.Entries = append(a.Entries, ArrangementEntry{})
	copy(a.Entries[position+1:], a.Entries[position:])
	a.Entries[position] = entry
}

func (a *Arrangement) Remove(position int) {
	if position >= 0 && position < len(a.Entries) {
		a.Entries = append(a.Entries[:position], a.Entries[position+1:]...)
	}
}

func (a *Arrangement) SetEntry(position, pattern, repeats int) {
	if position >= 0 && position < len(a.Entries) {
		a.Entries[position] = NewArrangementEntry(pattern, repeats)
	}
}

func (a *Arrangement) Clear() { a.Entries = nil }

// Clone returns a deep copy.
func (a Arrangement) Clone() Arrangement {
	entries := make([]ArrangementEntry, len(a.Entries))
	copy(entries, a.Entries)
	return Arrangement{Entries: entries}
}
