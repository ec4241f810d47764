package taxdump

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ErrMalformedRecord is returned for a line with too few fields.
var ErrMalformedRecord = errors.New("malformed record")

// ErrConsumed is returned when a stream is iterated a second time.
var ErrConsumed = errors.New("stream already consumed")

// maxLine bounds a single dump line. Real lines are well under 1 KiB.
const maxLine = 1 << 20

// Stream is a lazy, single-use sequence of records decoded from one dump
// member.
type Stream[T any] struct {
	ctx    context.Context
	open   func() (io.ReadCloser, error)
	decode func(fields []string) (T, bool, error)
	name   string

	rc       io.ReadCloser
	err      error
	consumed bool
	count    int
}

// All returns the records as an iterator. The member is opened on the
// first pull and closed when iteration ends, whether or not the consumer
// stops early. Failures stop the iteration and are reported by Err.
func (s *Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.consumed {
			s.setErr(ErrConsumed)
			return
		}
		s.consumed = true

		rc, err := s.open()
		if err != nil {
			s.setErr(err)
			return
		}
		s.rc = rc
		defer s.Close()

		sc := bufio.NewScanner(rc)
		sc.Buffer(make([]byte, 64*1024), maxLine)
		line := 0
		for sc.Scan() {
			line++
			if line%4096 == 0 {
				if err := s.ctx.Err(); err != nil {
					s.setErr(err)
					return
				}
			}
			if strings.TrimSpace(sc.Text()) == "" {
				continue
			}
			rec, ok, err := s.decode(splitFields(sc.Text()))
			if err != nil {
				s.setErr(fmt.Errorf("%s line %d: %w", s.name, line, err))
				return
			}
			if !ok {
				continue
			}
			s.count++
			if !yield(rec) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.setErr(fmt.Errorf("%s: %w", s.name, err))
		}
	}
}

// Err returns the first error met while iterating, if any.
func (s *Stream[T]) Err() error { return s.err }

// Count returns the number of records yielded so far.
func (s *Stream[T]) Count() int { return s.count }

// Close releases the underlying file. It is safe to call more than once.
func (s *Stream[T]) Close() error {
	if s.rc == nil {
		return nil
	}
	err := s.rc.Close()
	s.rc = nil
	return err
}

func (s *Stream[T]) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// splitFields strips the line, drops the tab padding and splits on "|".
func splitFields(line string) []string {
	line = strings.ReplaceAll(strings.TrimSpace(line), "\t", "")
	return strings.Split(line, "|")
}
