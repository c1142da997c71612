//go:build debug
// +build debug

package mcts

import (
	"bytes"
	"fmt"
	"sync"
)

// lumberjack keeps a trace of the search. Build with -tags debug to get it.
type lumberjack struct {
	sync.Mutex
	buf *bytes.Buffer
}

func makeLumberJack() lumberjack {
	return lumberjack{buf: new(bytes.Buffer)}
}

func (l *lumberjack) log(msg string, args ...interface{}) {
	l.Lock()
	fmt.Fprintf(l.buf, msg, args...)
	l.buf.WriteByte('\n')
	l.Unlock()
}

// ResetLog clears the trace.
func (l *lumberjack) ResetLog() {
	l.Lock()
	l.buf.Reset()
	l.Unlock()
}

// Log returns the trace of the search so far.
func (l *lumberjack) Log() string {
	l.Lock()
	defer l.Unlock()
	return l.buf.String()
}
