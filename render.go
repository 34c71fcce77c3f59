package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"stepbox/audio"
)

// renderState draws the sequencer grid: one row per track with its mute
// state and 16 step cells, plus a transport header.
func renderState(st *audio.SequencerState, w io.Writer) {
	transport := "stopped"
	if st.Playing {
		transport = "playing"
	}
	header := fmt.Sprintf("bpm %g  pattern %d  %s mode  %s",
		st.Bpm, st.CurrentPattern+1, st.Mode, transport)
	fmt.Fprintln(w, colorize(header, colorMagenta))

	var maxNameLen int
	for _, track := range st.Tracks {
		if len(track.Name) > maxNameLen {
			maxNameLen = len(track.Name)
		}
	}
	maxNameLen++

	for i, track := range st.Tracks {
		speaker := "🔈"
		if track.Mute {
			speaker = "🔇"
		}
		if track.Solo {
			speaker = "🔊"
		}

		var steps string
		for s := 0; s < audio.Steps; s++ {
			step := "⬜️"
			if st.Pattern.Step(i, s).Active {
				step = "⬛️"
			}
			steps += step + "  "
		}

		id := colorize(strconv.Itoa(i+1), colorGreen)
		name := formatTrackName(track.Name, maxNameLen)
		fmt.Fprintf(w, "%s %s %s %s\n", id, name, speaker, steps)
	}

	var numbers string
	for step := 1; step <= audio.Steps; step++ {
		space := 2
		if step < 10 {
			space++
		}
		numbers += strconv.Itoa(step) + strings.Repeat(" ", space)
	}
	fmt.Fprintln(w, strings.Repeat(" ", maxNameLen+5)+colorize(numbers, colorBlue))
}

// renderSong lists the arrangement with the current position marked.
func renderSong(st *audio.SequencerState, w io.Writer) {
	if st.Arrangement.Len() == 0 {
		fmt.Fprintln(w, "song is empty")
		return
	}
	for i, entry := range st.Arrangement.Entries {
		marker := " "
		if st.Mode == audio.SongMode && i == st.SongPosition {
			marker = colorize("▶", colorGreen)
		}
		fmt.Fprintf(w, "%s %2d: pattern %d x%d\n", marker, i+1, entry.Pattern+1, entry.Repeats)
	}
}

// renderTrack lists a track's parameters with their ranges.
func renderTrack(track audio.TrackState, w io.Writer) {
	fmt.Fprintf(w, "%s  vol %.2f  pan %.2f\n", colorize(track.Name, colorBlue), track.Volume, track.Pan)
	if track.SamplePath != "" {
		fmt.Fprintf(w, "  sample: %s\n", track.SamplePath)
	}
	for _, def := range audio.ParamDefs(track.Kind) {
		value := track.Params[def.Key]
		fmt.Fprintf(w, "  %-12s %8.2f  (%g to %g)\n", def.Key, value, def.Min, def.Max)
	}
}

func formatTrackName(name string, max int) string {
	if len(name) > max {
		name = name[:max-1] + "…"
	}
	if len(name) < max {
		name += strings.Repeat(" ", max-len(name))
	}
	return colorize(name, colorBlue)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
