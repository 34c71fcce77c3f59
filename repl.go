package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"stepbox/audio"
	"stepbox/dsl"
)

type env struct {
	bus        *audio.Bus
	store      *audio.Store
	sampleDirs []string
	quit       bool
}

func (e *env) eval(input string) error {
	cmds, err := dsl.Parse(input)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := e.run(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) run(cmd dsl.Command) error {
	name := string(cmd.Name)
	for _, c := range commands {
		if name != c.name {
			continue
		}
		if c.arity < 0 {
			arity := -c.arity
			if len(cmd.Args) < arity {
				return fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					c.name, arity, len(cmd.Args))
			}
		} else if len(cmd.Args) != c.arity {
			return fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				c.name, c.arity, len(cmd.Args))
		}
		if err := c.run(e, cmd.Args); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Println(err)
		}
		if env.quit {
			return nil
		}
	}
}
