package gtp

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoSession is returned by commands that need a game when the engine has none.
var ErrNoSession = errors.New("No game is bound to the engine")

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func quit(e *Engine) string { e.quitting = true; return "" }

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func clearBoard(e *Engine, args []string) (string, error) {
	if e.s == nil {
		return "", ErrNoSession
	}
	e.s.Clear()
	return "", nil
}

func showboard(e *Engine, args []string) (string, error) {
	if e.s == nil {
		return "", ErrNoSession
	}
	return "\n" + strings.TrimRight(e.s.Show(), "\n"), nil
}

func undo(e *Engine, args []string) (string, error) {
	if e.s == nil {
		return "", ErrNoSession
	}
	return "", e.s.Undo()
}

func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	if e.s == nil {
		return "", ErrNoSession
	}
	return "", e.s.Play(args[0], args[1])
}

func genmove(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	if e.s == nil {
		return "", ErrNoSession
	}
	return e.s.Genmove(args[0])
}

func showtree(e *Engine, args []string) (string, error) {
	if e.s == nil {
		return "", ErrNoSession
	}
	return "\n" + strings.TrimRight(e.s.Tree(), "\n"), nil
}

func visits(e *Engine, args []string) (string, error) {
	if e.s == nil {
		return "", ErrNoSession
	}
	return "\n" + strings.TrimRight(e.s.Visits(), "\n"), nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),

		"known_command": stdlib2(knownCommand),
		"clear_board":   stdlib2(clearBoard),
		"showboard":     stdlib2(showboard),
		"undo":          stdlib2(undo),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
		"showtree":      stdlib2(showtree),
		"visits":        stdlib2(visits),
	}
}
