package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"stepbox/audio"
)

const (
	sampleRate = 44100
)

func main() {
	var (
		bpm      = flag.Float64("bpm", 120, "initial tempo")
		project  = flag.String("project", "", "project file to open at startup")
		samples  = flag.String("samples", "", "extra sample directory")
		encoding = flag.String("encoding", "f32", "output sample format: f32, i16 or u16")
		buffer   = flag.Int("buffer", 256, "audio buffer size in frames")
		run      = flag.String("run", "", "script of commands to run at startup")
	)
	flag.Parse()

	enc, err := audio.ParseEncoding(*encoding)
	if err != nil {
		log.Fatal(err)
	}

	var script []string
	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			script = append(script, strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}

	state := audio.NewSequencerState()
	state.Bpm = *bpm

	bus := audio.NewBus()
	store := audio.NewStore(state)
	engine := audio.NewEngine(sampleRate, bus, store)

	sink, err := audio.NewSink(engine, sampleRate, *buffer, enc)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()

	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}

	env := &env{
		bus:        bus,
		store:      store,
		sampleDirs: sampleDirs(*samples),
	}

	if *project != "" {
		loaded, err := loadProjectFile(*project)
		if err != nil {
			log.Fatal(err)
		}
		applyProject(env, loaded)
	}

	for _, line := range script {
		if line == "" {
			continue
		}
		if err := env.eval(line); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
