// Package gtp is a line oriented text protocol front end for a search tree, modelled on the Go Text Protocol.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Engine reads commands and writes responses. It is not safe for concurrent use.
type Engine struct {
	s Session

	known map[string]Command

	ch  chan string
	ret chan string

	quitting      bool
	name, version string
}

// New creates an engine that plays the session. If known is nil, StandardLib is used.
func New(s Session, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		s:       s,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start runs the engine on its own goroutine. Commands are sent on input and responses come back on output.
// output is closed after the response to quit.
func (e *Engine) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) start() {
	for cmd := range e.ch {
		if resp := e.Exec(cmd); resp != "" {
			e.ret <- resp
		}
		if e.quitting {
			close(e.ret)
			return
		}
	}
	close(e.ret)
}

// Serve reads commands line by line from r and writes the responses to w until quit or the end of input.
func (e *Engine) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if resp := e.Exec(scanner.Text()); resp != "" {
			if _, err := io.WriteString(w, resp); err != nil {
				return errors.WithStack(err)
			}
		}
		if e.quitting {
			return nil
		}
	}
	return errors.WithStack(scanner.Err())
}

// Exec executes one command line and returns the formatted response. Empty lines and comments get no response.
func (e *Engine) Exec(cmd string) string {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return ""
	}
	if err != nil {
		log.Debug().Int("id", id).Str("cmd", cmd).Err(err).Msg("Unable to parse")
		return handleErr(id, err)
	}
	id, result, err := x.Do(id, args, e)
	log.Debug().Int("id", id).Str("cmd", cmd).Str("result", result).AnErr("err", err).Msg("Executed")
	return handleResult(id, result, err)
}

// Session returns the session the engine plays.
func (e *Engine) Session() Session { return e.s }

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess drops comments and surrounding whitespace and lowercases the rest.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
