package dsl

import (
	"fmt"
	"math"
)

// The grid is a single 4/4 bar of sixteenth notes.
const (
	gridSteps = 16
	gridBeats = 4
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

// StepIndexes evaluates a match expression over the 16-step grid and returns
// the matched step indexes, zero based. The top level addresses quarter
// notes 1-4; each slash descends a subdivision, so '1,3/2' is the second
// eighth of beats 1 and 3.
func StepIndexes(expr MatchExpr) ([]int, error) {
	seq := make([]int, gridSteps)

	for i := len(expr.matchers) - 1; i >= 0; i-- {
		item := expr.matchers[i]
		level := gridBeats * int(math.Pow(2, float64(item.level)))
		if level > gridSteps {
			return nil, fmt.Errorf("can't match on %d notes in a %d step bar", level, gridSteps)
		}
		skip := gridSteps / level
		notesPerBeat := level / gridBeats

		for note, steps := 0, 0; note < len(seq); note += skip {
			// note number relative to other notes on the same division,
			// e.g. the 16th notes within a beat are numbered 0 to 3
			noteNum := steps % notesPerBeat
			if notesPerBeat == 1 {
				noteNum = steps
			}
			steps++

			// add 1 because match expects note numbers to start at 1
			if item.matcher.match(noteNum + 1) {
				if i == len(expr.matchers)-1 {
					seq[note] = 1
				}
			} else {
				// zero steps that are unmatched by the current level
				for k := note; k < note+skip; k++ {
					seq[k] = 0
				}
			}
		}
	}

	var indexes []int
	for i, v := range seq {
		if v == 1 {
			indexes = append(indexes, i)
		}
	}
	return indexes, nil
}
