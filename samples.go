package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	wav "github.com/youpy/go-wav"
)

// sampleDirs returns the directories searched for .wav files: ./samples,
// then the per-user library, then any extra directory from the command line.
func sampleDirs(extra string) []string {
	dirs := []string{"samples"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".stepbox", "samples"))
	}
	if extra != "" {
		dirs = append(dirs, extra)
	}
	return dirs
}

// listSamples walks the sample directories and returns sample names relative
// to their directory, sorted and de-duplicated.
func listSamples(dirs []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range dirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) != ".wav" {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = d.Name()
			}
			if !seen[rel] {
				seen[rel] = true
				names = append(names, rel)
			}
			return nil
		})
	}
	sort.Strings(names)
	return names
}

// resolveSample finds a sample by name: an existing path wins, otherwise the
// sample directories are searched in order.
func resolveSample(name string, dirs []string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".wav")
	}
	for _, dir := range dirs {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("sample not found: %s", name)
}

// loadSample decodes a wav file to mono float64, resampled to the engine
// rate. Stereo files are averaged down to mono.
func loadSample(path string, targetRate float64) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var buf []float64
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, sample := range samples {
			v := r.FloatValue(sample, 0)
			if format.NumChannels > 1 {
				v = (v + r.FloatValue(sample, 1)) / 2
			}
			buf = append(buf, v)
		}
	}

	if rate := float64(format.SampleRate); rate != targetRate {
		buf = resample(buf, rate, targetRate)
	}
	return buf, nil
}

// resample converts between sample rates with linear interpolation, which is
// fine for one-shot drum material.
func resample(in []float64, from, to float64) []float64 {
	if len(in) == 0 {
		return in
	}
	ratio := from / to
	out := make([]float64, int(float64(len(in))/ratio))
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)
		s0 := in[idx]
		s1 := s0
		if idx+1 < len(in) {
			s1 = in[idx+1]
		}
		out[i] = s0 + (s1-s0)*frac
	}
	return out
}
