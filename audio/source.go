// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pion/logging"
)

// Source answers forward sample-range reads over a FrameDecoder while
// keeping only a bounded window of decoded audio in memory.
//
// Reads must be issued with a non-decreasing first sample. A Source is not
// safe for concurrent use.
type Source struct {
	dec    FrameDecoder
	frames *frameReader
	info   StreamInfo
	log    logging.LeveledLogger

	win     *Window
	surplus int

	// latch: eos is set once the decoder ran dry, failure on the first
	// unrecoverable error. Neither is ever cleared.
	eos     bool
	failure error

	closed bool
}

// NewSource wraps dec and primes the window with its first frame. The
// decoder is closed when NewSource fails.
func NewSource(dec FrameDecoder, opts ...Option) (*Source, error) {
	cfg := newConfig(opts)

	src, err := newSource(dec, cfg)
	if err != nil {
		_ = dec.Close()
		return nil, err
	}

	return src, nil
}

func newSource(dec FrameDecoder, cfg config) (*Source, error) {
	info := dec.Info()
	if err := info.Validate(); err != nil {
		return nil, err
	}

	surplus, capacity, err := cfg.window(info)
	if err != nil {
		return nil, err
	}

	win, err := NewWindow(capacity)
	if err != nil {
		return nil, err
	}

	s := &Source{
		dec:     dec,
		frames:  newFrameReader(dec, cfg.log, cfg.warnEvery, cfg.maxCorruptRun),
		info:    info,
		log:     cfg.log,
		win:     win,
		surplus: surplus,
	}

	s.log.Debugf("%s: %d Hz, %d ch, %s, frame %d samples, window %d bytes, surplus %d",
		info.Codec, info.SampleRate, info.Channels, info.Format, info.FrameLen, capacity, surplus)

	if err := s.bufferNext(); err != nil {
		if s.eos {
			return nil, ErrEmptyStream
		}
		return nil, s.failure
	}

	return s, nil
}

func (s *Source) Info() StreamInfo { return s.info }

// Surplus is the margin in bytes kept free around split reads.
func (s *Source) Surplus() int { return s.surplus }

// Capacity is the size of the decode window in bytes.
func (s *Source) Capacity() int { return s.win.Cap() }

// WindowStart is the byte offset of the oldest retained decoded byte.
func (s *Source) WindowStart() uint64 { return s.win.Start() }

// WindowEnd is the byte offset one past the newest decoded byte.
func (s *Source) WindowEnd() uint64 { return s.win.End() }

// WindowLen is the number of decoded bytes currently retained.
func (s *Source) WindowLen() int { return s.win.Len() }

// Corrupted is the number of undecodable units skipped so far.
func (s *Source) Corrupted() int { return s.frames.corrupted() }

// Err returns the latched failure, if any.
func (s *Source) Err() error { return s.failure }

// GetSamples returns the decoded bytes of the samples [first, last).
//
// When the stream ends inside the range the packet is short and has EOF
// set. A range starting past the end yields an empty EOF packet. A range
// that was already evicted fails with ErrBackwardSeek, and so does every
// later call. A range whose byte
// offsets do not fit in a uint64 fails with ErrInvalidRange.
func (s *Source) GetSamples(first, last uint64) (*Packet, error) {
	if s.closed {
		return nil, ErrClosed
	}
	// a backward seek ends the stream, resident bytes included
	if errors.Is(s.failure, ErrBackwardSeek) {
		return nil, s.failure
	}
	if last <= first {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, first, last)
	}
	// byte offsets of the range must fit in a uint64
	if last > math.MaxUint64/uint64(s.info.SampleSize) {
		return nil, fmt.Errorf("%w: [%d, %d) overflows the byte offset", ErrInvalidRange, first, last)
	}

	size := (last - first) * uint64(s.info.SampleSize)
	data, eof, err := s.readInto(make([]byte, 0, min(size, uint64(s.win.Cap()))), first, last)
	if err != nil {
		return nil, err
	}

	return &Packet{FirstSample: first, Data: data, EOF: eof}, nil
}

// readInto appends the bytes of [first, last) to dst. Ranges that cannot
// be served from one window load are split in two at a point that leaves
// the surplus free on both sides.
func (s *Source) readInto(dst []byte, first, last uint64) ([]byte, bool, error) {
	ss := uint64(s.info.SampleSize)
	firstByte := first * ss
	want := (last - first) * ss

	if _, err := s.ensureUntil(firstByte); err != nil {
		return dst, false, err
	}

	if want+uint64(s.surplus) > uint64(s.win.Cap()) {
		pivot := first + uint64(s.win.Cap()-2*s.surplus)/ss
		s.log.Debugf("split [%d, %d) at %d", first, last, pivot)

		var eof bool
		var err error
		dst, eof, err = s.readInto(dst, first, pivot)
		if err != nil || eof {
			return dst, eof, err
		}

		return s.readInto(dst, pivot, last)
	}

	end, err := s.ensureUntil(firstByte + want - 1)
	if err != nil {
		return dst, false, err
	}

	// Decoding the tail of the range may have pushed its head out.
	if firstByte < s.win.Start() {
		return dst, false, s.backwardSeek(first)
	}

	var avail uint64
	if end > firstByte {
		avail = end - firstByte
	}

	eof := false
	if avail < want {
		want = avail
		eof = true
	}

	dst, err = s.win.AppendTo(dst, firstByte, int(want))
	if err != nil {
		return dst, false, err
	}

	return dst, eof, nil
}

// ensureUntil decodes until the byte at off is resident or the stream has
// ended, and returns the end of the window. Resident bytes are served even
// after a decode failure has been latched.
func (s *Source) ensureUntil(off uint64) (uint64, error) {
	switch s.win.Classify(off) {
	case Before:
		return 0, s.backwardSeek(off / uint64(s.info.SampleSize))
	case In:
		return s.win.End(), nil
	}

	if s.failure != nil {
		return 0, s.failure
	}

	for !s.eos && s.win.Classify(off) == After {
		if err := s.bufferNext(); err != nil {
			if s.eos {
				break
			}
			return 0, err
		}
	}

	return s.win.End(), nil
}

// bufferNext appends one frame to the window. At end of stream it sets
// eos and returns io.EOF; any other error is latched.
func (s *Source) bufferNext() error {
	frame, err := s.frames.next()
	if errors.Is(err, io.EOF) {
		s.eos = true
		s.log.Infof("end of stream at sample %d", s.win.End()/uint64(s.info.SampleSize))
		return io.EOF
	}
	if err != nil {
		return s.latch(err)
	}

	evicted, err := s.win.Append(frame)
	if err != nil {
		return s.latch(err)
	}
	if evicted > 0 {
		s.log.Tracef("evicted %d bytes, window [%d, %d)", evicted, s.win.Start(), s.win.End())
	}

	return nil
}

func (s *Source) latch(err error) error {
	if !errors.Is(err, ErrDecodeFailure) {
		err = fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if s.failure == nil {
		s.failure = err
		s.log.Errorf("%v", err)
	}

	return s.failure
}

func (s *Source) backwardSeek(sample uint64) error {
	ss := uint64(s.info.SampleSize)
	err := fmt.Errorf("%w: requested sample %d, first sample available %d",
		ErrBackwardSeek, sample, (s.win.Start()+ss-1)/ss)
	if s.failure == nil {
		s.failure = err
		s.log.Errorf("%v", err)
	}

	return err
}

// Close releases the window and closes the decoder. Calling Close again
// is a no-op.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.win.Release()

	return s.dec.Close()
}
