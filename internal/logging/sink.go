// Package logging provides the shared console sink used by every job.
package logging

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Printer writes formatted lines. Both *Sink and the writer handed to a
// Block callback satisfy it.
type Printer interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

// Sink serializes log output from concurrent jobs. Child sinks created with
// With share the parent's lock and logger.
type Sink struct {
	mu     *sync.Mutex
	logger *log.Logger
	prefix string
}

// New creates a Sink writing to w with the standard date/time flags.
func New(w io.Writer) *Sink {
	return FromLogger(log.New(w, "", log.LstdFlags))
}

// FromLogger wraps an existing logger.
func FromLogger(l *log.Logger) *Sink {
	return &Sink{mu: &sync.Mutex{}, logger: l}
}

// Discard returns a sink that drops everything.
func Discard() *Sink {
	return New(io.Discard)
}

// With returns a child sink that prepends prefix to every line.
func (s *Sink) With(prefix string) *Sink {
	return &Sink{mu: s.mu, logger: s.logger, prefix: s.prefix + prefix}
}

// Printf writes a single line.
func (s *Sink) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Print(s.prefix + fmt.Sprintf(format, args...))
}

// Println writes a single line.
func (s *Sink) Println(args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Print(s.prefix + fmt.Sprintln(args...))
}

// Block holds the sink for the duration of fn so a multi-line message is
// written contiguously. fn must not log through s itself.
func (s *Sink) Block(fn func(p Printer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(blockPrinter{s})
}

type blockPrinter struct {
	s *Sink
}

func (b blockPrinter) Printf(format string, args ...any) {
	b.s.logger.Print(b.s.prefix + fmt.Sprintf(format, args...))
}

func (b blockPrinter) Println(args ...any) {
	b.s.logger.Print(b.s.prefix + fmt.Sprintln(args...))
}
