// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pion/logging"
)

const (
	// DefaultWarnEvery repeats the desync warning once every that many
	// corrupt units.
	DefaultWarnEvery = 256
	// DefaultMaxCorruptRun is the number of consecutive corrupt units after
	// which a stream is considered undecodable. Zero means no limit.
	DefaultMaxCorruptRun = 0
	// DefaultStallLimit is the number of corrupt units an adapter may report
	// in a row without consuming any input before it gives up.
	DefaultStallLimit = 256
)

// WarnLimiter lets the first of every n events through.
type WarnLimiter struct {
	every int
	count int
}

func NewWarnLimiter(every int) *WarnLimiter {
	if every <= 0 {
		every = 1
	}

	return &WarnLimiter{every: every}
}

// Allow records one event and reports whether it should be logged.
func (l *WarnLimiter) Allow() bool {
	allow := l.count%l.every == 0
	l.count++

	return allow
}

// Count is the number of events recorded so far.
func (l *WarnLimiter) Count() int { return l.count }

// frameReader hides recoverable corruption from the window: corrupt units
// are skipped, everything else is passed on.
type frameReader struct {
	dec    FrameDecoder
	log    logging.LeveledLogger
	warn   *WarnLimiter
	maxRun int
}

func newFrameReader(dec FrameDecoder, log logging.LeveledLogger, warnEvery, maxRun int) *frameReader {
	return &frameReader{
		dec:    dec,
		log:    log,
		warn:   NewWarnLimiter(warnEvery),
		maxRun: maxRun,
	}
}

// next returns a non-empty frame, io.EOF, or a fatal error.
func (f *frameReader) next() ([]byte, error) {
	run := 0
	for {
		frame, err := f.dec.NextFrame()
		switch {
		case err == nil:
			if len(frame) == 0 {
				continue
			}
			return frame, nil
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.Is(err, ErrCorruptFrame):
			run++
			if f.warn.Allow() {
				f.log.Warnf("decoding errors may cause audio desync (%d corrupt units): %v", f.warn.Count(), err)
			}
			if f.maxRun > 0 && run >= f.maxRun {
				return nil, fmt.Errorf("%w: %d consecutive corrupt units, last: %w", ErrDecodeFailure, run, err)
			}
		default:
			return nil, err
		}
	}
}

// corrupted is the number of units skipped so far.
func (f *frameReader) corrupted() int { return f.warn.Count() }

// ReaderGuard remembers the first I/O failure of the reader it wraps, so
// an adapter can tell a broken input apart from a broken frame when the
// underlying codec library reports both the same way.
type ReaderGuard struct {
	r   io.Reader
	mu  sync.Mutex
	err error
	off int64
}

func NewReaderGuard(r io.Reader) *ReaderGuard {
	return &ReaderGuard{r: r}
}

func (g *ReaderGuard) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)

	g.mu.Lock()
	g.off += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && g.err == nil {
		g.err = err
	}
	g.mu.Unlock()

	return n, err
}

// Offset is the number of bytes read through the guard.
func (g *ReaderGuard) Offset() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.off
}

// Err returns the first non-EOF read error, if any.
func (g *ReaderGuard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.err
}

// ClassifyDecodeError maps an error from a codec library onto the
// FrameDecoder contract: nil stays nil, end of input becomes io.EOF, a
// failed read of the input is returned as is, and everything else is a
// corrupt unit.
func ClassifyDecodeError(err error, guard *ReaderGuard) error {
	if err == nil {
		return nil
	}
	if guard != nil {
		if ioErr := guard.Err(); ioErr != nil {
			return fmt.Errorf("read: %w", ioErr)
		}
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if errors.Is(err, ErrCorruptFrame) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
}

// StallDetector catches a codec library that lost sync for good and keeps
// reporting corrupt units without reading any further input. Such a run
// becomes a stream-level ErrDecodeFailure; damaged units that consume input
// pass through untouched however many there are.
type StallDetector struct {
	guard  *ReaderGuard
	limit  int
	last   int64
	stalls int
}

// NewStallDetector watches the input behind guard. A nil guard disables
// the check. A non-positive limit means DefaultStallLimit.
func NewStallDetector(guard *ReaderGuard, limit int) *StallDetector {
	if limit <= 0 {
		limit = DefaultStallLimit
	}

	return &StallDetector{guard: guard, limit: limit}
}

// Check takes the result of one NextFrame call and returns the error to
// report in its place.
func (d *StallDetector) Check(err error) error {
	if d == nil || d.guard == nil {
		return err
	}

	off := d.guard.Offset()
	if !errors.Is(err, ErrCorruptFrame) || off != d.last {
		d.last = off
		d.stalls = 0
		return err
	}

	d.stalls++
	if d.stalls >= d.limit {
		// the corrupt error is not wrapped: this is no longer skippable
		return fmt.Errorf("%w: no input consumed at byte %d over %d corrupt units, last: %v",
			ErrDecodeFailure, off, d.stalls, err)
	}

	return err
}

// Cursor hands out decoded bytes of one unit over several frames.
type Cursor struct {
	buf []byte
	off int
}

// Load replaces the pending bytes. p is copied.
func (c *Cursor) Load(p []byte) {
	c.buf = append(c.buf[:0], p...)
	c.off = 0
}

// Buffer returns a zero-length slice with at least n bytes of capacity that
// may be filled and passed to Load without a further allocation.
func (c *Cursor) Buffer(n int) []byte {
	if cap(c.buf) < n {
		c.buf = make([]byte, 0, n)
	}

	return c.buf[:0]
}

// Take returns up to n pending bytes. The slice aliases the cursor and is
// valid until the next Load.
func (c *Cursor) Take(n int) []byte {
	end := min(c.off+n, len(c.buf))
	p := c.buf[c.off:end]
	c.off = end

	return p
}

// Remaining is the number of bytes not yet taken.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }
