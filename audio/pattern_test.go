package audio

import (
	"reflect"
	"testing"
)

func TestPatternToggleKeepsNote(t *testing.T) {
	p := NewPattern([]uint8{36})
	p.SetNote(0, 3, 40)
	p.Toggle(0, 3)
	if got := p.Step(0, 3); !got.Active || got.Note != 40 {
		t.Errorf("want active step with note 40, got %+v", got)
	}
	p.Toggle(0, 3)
	if got := p.Step(0, 3); got.Active || got.Note != 40 {
		t.Errorf("toggling off should keep the note, got %+v", got)
	}
}

func TestPatternSetNoteClamp(t *testing.T) {
	p := NewPattern([]uint8{36})
	p.SetNote(0, 0, 200)
	if got := p.Step(0, 0).Note; got != 127 {
		t.Errorf("want note clamped to 127, got %d", got)
	}
}

func TestPatternOutOfRange(t *testing.T) {
	p := NewPattern([]uint8{36})
	p.Toggle(5, 0)
	p.Toggle(0, 99)
	p.SetNote(-1, 0, 50)
	if got := p.Step(9, 9); got != (StepData{Note: 60}) {
		t.Errorf("out of range step: want inactive C4, got %+v", got)
	}
}

func TestPatternClearAndFill(t *testing.T) {
	p := NewPattern([]uint8{36})
	p.FillTrack(0, 38)
	for step := 0; step < Steps; step++ {
		if got := p.Step(0, step); !got.Active || got.Note != 38 {
			t.Fatalf("step %d: want active note 38, got %+v", step, got)
		}
	}
	p.ClearTrack(0, 36)
	for step := 0; step < Steps; step++ {
		if got := p.Step(0, step); got.Active || got.Note != 36 {
			t.Fatalf("step %d: want inactive note 36, got %+v", step, got)
		}
	}
}

func TestPatternRemoveTrackKeepsLast(t *testing.T) {
	p := NewPattern([]uint8{36, 50})
	p.RemoveTrack(0)
	if p.NumTracks() != 1 {
		t.Fatalf("want 1 track, got %d", p.NumTracks())
	}
	p.RemoveTrack(0)
	if p.NumTracks() != 1 {
		t.Error("the last track must not be removable")
	}
}

func TestPatternCloneIsDeep(t *testing.T) {
	p := NewPattern([]uint8{36})
	clone := p.Clone()
	clone.Toggle(0, 0)
	if p.Step(0, 0).Active {
		t.Error("mutating a clone changed the original")
	}
}

func TestBankHasContent(t *testing.T) {
	b := NewPatternBank([]uint8{36})
	if b.HasContent(3) {
		t.Error("empty pattern reported content")
	}
	b.Patterns[3].Toggle(0, 0)
	if !b.HasContent(3) {
		t.Error("pattern with an active step reported empty")
	}
	if b.HasContent(-1) || b.HasContent(NumPatterns) {
		t.Error("out of range index reported content")
	}
}

func TestBankGetClamps(t *testing.T) {
	b := NewPatternBank([]uint8{36})
	if b.Get(-5) != &b.Patterns[0] {
		t.Error("negative index should clamp to the first pattern")
	}
	if b.Get(99) != &b.Patterns[NumPatterns-1] {
		t.Error("large index should clamp to the last pattern")
	}
}

func TestArrangementEntryClamps(t *testing.T) {
	tests := []struct {
		pattern, repeats int
		want             ArrangementEntry
	}{
		{0, 1, ArrangementEntry{0, 1}},
		{-3, 0, ArrangementEntry{0, 1}},
		{99, 99, ArrangementEntry{15, 16}},
		{5, 4, ArrangementEntry{5, 4}},
	}
	for _, test := range tests {
		got := NewArrangementEntry(test.pattern, test.repeats)
		if got != test.want {
			t.Errorf("entry(%d, %d): want %+v, got %+v", test.pattern, test.repeats, test.want, got)
		}
	}
}

func TestArrangementEditing(t *testing.T) {
	var a Arrangement
	a.Append(0, 2)
	a.Append(1, 1)
	a.Insert(1, 2, 4)
	want := []ArrangementEntry{{0, 2}, {2, 4}, {1, 1}}
	if !reflect.DeepEqual(want, a.Entries) {
		t.Fatalf("want %+v, got %+v", want, a.Entries)
	}

	a.SetEntry(0, 3, 8)
	if a.Entries[0] != (ArrangementEntry{3, 8}) {
		t.Errorf("set entry: got %+v", a.Entries[0])
	}

	a.Remove(1)
	want = []ArrangementEntry{{3, 8}, {1, 1}}
	if !reflect.DeepEqual(want, a.Entries) {
		t.Fatalf("after remove: want %+v, got %+v", want, a.Entries)
	}

	// out of range edits are ignored
	a.Remove(10)
	a.SetEntry(-1, 0, 1)
	a.Insert(99, 0, 1)
	if a.Len() != 2 {
		t.Errorf("want 2 entries, got %d", a.Len())
	}

	a.Clear()
	if a.Len() != 0 {
		t.Error("clear should empty the arrangement")
	}
}

func TestArrangementCapacity(t *testing.T) {
	var a Arrangement
	for i := 0; i < MaxArrangementEntries+10; i++ {
		a.Append(0, 1)
	}
	if a.Len() != MaxArrangementEntries {
		t.Errorf("want %d entries, got %d", MaxArrangementEntries, a.Len())
	}
}
