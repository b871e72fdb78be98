// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audsrc/audio"
)

// FrameLen is the number of samples in one MPEG-1 Layer III frame.
const FrameLen = 1152

// go-mp3 always produces interleaved stereo s16le
const (
	channels = 2
	chanSize = 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// frames hands out go-mp3 output one MP3 frame's worth at a time.
type frames struct {
	dec   mp3Reader
	guard *audio.ReaderGuard
	stall *audio.StallDetector
	info  audio.StreamInfo
	buf   []byte

	// pending is an error seen after a partial frame, returned next.
	pending error
	eof     bool
}

func newFrames(dec mp3Reader, guard *audio.ReaderGuard, numBytes int64) *frames {
	info := audio.NewStreamInfo("mp3", dec.SampleRate(), channels, audio.FormatS16, FrameLen)
	if numBytes > 0 {
		info.NumSamples = numBytes / int64(info.SampleSize)
	}

	return &frames{
		dec:   dec,
		guard: guard,
		stall: audio.NewStallDetector(guard, audio.DefaultStallLimit),
		info:  info,
		buf:   make([]byte, info.FrameSize),
	}
}

func (f *frames) Info() audio.StreamInfo { return f.info }
func (f *frames) Close() error           { return nil }

func (f *frames) NextFrame() ([]byte, error) {
	p, err := f.next()
	if err = f.stall.Check(err); err != nil {
		return nil, err
	}

	return p, nil
}

func (f *frames) next() ([]byte, error) {
	if f.pending != nil {
		err := f.pending
		f.pending = nil
		return nil, err
	}
	if f.eof {
		return nil, io.EOF
	}

	n, err := io.ReadFull(f.dec, f.buf)
	n -= n % f.info.SampleSize

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// a short last frame is the normal end; nothing at all after an
		// unexpected EOF is a truncated frame
		f.eof = true
		if n == 0 {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, audio.ClassifyDecodeError(err, f.guard)
			}
			return nil, io.EOF
		}
	default:
		if n == 0 {
			return nil, audio.ClassifyDecodeError(err, f.guard)
		}
		f.pending = audio.ClassifyDecodeError(err, f.guard)
	}

	return f.buf[:n], nil
}

// Decoder opens MPEG-1/2 Layer III streams.
type Decoder struct{}

func (Decoder) Open(r io.Reader, track audio.Track) (audio.FrameDecoder, error) {
	if err := audio.SingleTrack(track); err != nil {
		return nil, err
	}

	guard := audio.NewReaderGuard(r)
	// go-mp3 only computes the length when it can seek
	var in io.Reader = guard
	if rs, ok := r.(io.ReadSeeker); ok {
		in = &seekGuard{ReaderGuard: guard, s: rs}
	}

	dec, err := gomp3.NewDecoder(in)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return newFrames(dec, guard, dec.Length()), nil
}

// seekGuard keeps the input seekable while reads go through the guard.
type seekGuard struct {
	*audio.ReaderGuard
	s io.Seeker
}

func (g *seekGuard) Seek(offset int64, whence int) (int64, error) {
	return g.s.Seek(offset, whence)
}
