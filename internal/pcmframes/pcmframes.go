// SPDX-License-Identifier: EPL-2.0

// Package pcmframes adapts the go-audio integer PCM decoders to
// audio.FrameDecoder.
package pcmframes

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/utils"
)

// DefaultFrameLen is the number of samples per frame when none is given.
const DefaultFrameLen = 1024

// IntReader is the part of the go-audio wav and aiff decoders in use.
type IntReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Decoder packs integer PCM into frames of at most info.FrameLen samples.
type Decoder struct {
	r      IntReader
	info   audio.StreamInfo
	packer utils.Packer
	buf    *goaudio.IntBuffer
	out    []byte
	closer io.Closer
	done   bool
}

// New returns a frame decoder over r. info must describe the packed output
// and packer must produce info.ChanSize bytes per sample. closer, when not
// nil, is closed with the decoder.
func New(r IntReader, info audio.StreamInfo, packer utils.Packer, closer io.Closer) *Decoder {
	return &Decoder{
		r:      r,
		info:   info,
		packer: packer,
		buf: &goaudio.IntBuffer{
			Data: make([]int, info.FrameLen*info.Channels),
			Format: &goaudio.Format{
				NumChannels: info.Channels,
				SampleRate:  info.SampleRate,
			},
		},
		out:    make([]byte, 0, info.FrameSize),
		closer: closer,
	}
}

func (d *Decoder) Info() audio.StreamInfo { return d.info }

func (d *Decoder) NextFrame() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := d.r.PCMBuffer(d.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		d.done = true
		return nil, fmt.Errorf("pcm read: %w", err)
	}

	// a trailing partial sample frame is dropped
	n -= n % d.info.Channels
	if n <= 0 {
		d.done = true
		return nil, io.EOF
	}
	if err != nil {
		d.done = true
	}

	d.out = d.packer.Append(d.out[:0], d.buf.Data[:n])

	return d.out, nil
}

func (d *Decoder) Close() error {
	d.done = true
	if d.closer != nil {
		return d.closer.Close()
	}

	return nil
}

// Seekable returns r as an io.ReadSeeker, reading it into memory first when
// it cannot seek. The go-audio decoders need to seek over chunk headers.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return &readSeeker{data: data}, nil
}

// readSeeker implements io.ReadSeeker for in-memory data
type readSeeker struct {
	data   []byte
	offset int64
}

func (rs *readSeeker) Read(p []byte) (n int, err error) {
	if rs.offset >= int64(len(rs.data)) {
		return 0, io.EOF
	}
	n = copy(p, rs.data[rs.offset:])
	rs.offset += int64(n)
	return n, nil
}

func (rs *readSeeker) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = rs.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(rs.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position")
	}

	rs.offset = newOffset
	return newOffset, nil
}
