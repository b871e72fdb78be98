// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/utils"
)

// flacStream is an interface for flac.Stream to allow testing
type flacStream interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

// frames hands out one FLAC frame per call, interleaved and packed.
type frames struct {
	stream flacStream
	guard  *audio.ReaderGuard
	stall  *audio.StallDetector
	info   audio.StreamInfo
	bits   int
	packer utils.Packer
	out    []byte
}

func newFrames(stream flacStream, si *meta.StreamInfo, guard *audio.ReaderGuard) (*frames, error) {
	if si == nil || si.NChannels == 0 || si.SampleRate == 0 || si.BlockSizeMax == 0 {
		return nil, ErrInvalidStreamInfo
	}

	bits := int(si.BitsPerSample)
	format, ok := audio.IntFormat(bits)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	// FLAC samples are signed and right-justified. 8-bit output is
	// unsigned, so those get biased.
	packer, err := utils.NewPacker(bits, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}

	info := audio.NewStreamInfo("flac", int(si.SampleRate), int(si.NChannels), format, int(si.BlockSizeMax))
	info.NumSamples = int64(si.NSamples)

	return &frames{
		stream: stream,
		guard:  guard,
		stall:  audio.NewStallDetector(guard, audio.DefaultStallLimit),
		info:   info,
		bits:   bits,
		packer: packer,
		out:    make([]byte, 0, info.FrameSize),
	}, nil
}

func (f *frames) Info() audio.StreamInfo { return f.info }

func (f *frames) Close() error { return f.stream.Close() }

func (f *frames) NextFrame() ([]byte, error) {
	p, err := f.next()
	if err = f.stall.Check(err); err != nil {
		return nil, err
	}

	return p, nil
}

func (f *frames) next() ([]byte, error) {
	fr, err := f.stream.ParseNext()
	if err != nil {
		return nil, audio.ClassifyDecodeError(err, f.guard)
	}

	if len(fr.Subframes) != f.info.Channels {
		return nil, fmt.Errorf("%w: frame %d has %d channels, stream has %d",
			audio.ErrCorruptFrame, fr.Num, len(fr.Subframes), f.info.Channels)
	}
	if int(fr.BitsPerSample) != f.bits {
		return nil, fmt.Errorf("%w: frame %d is %d-bit, stream is %d-bit",
			audio.ErrCorruptFrame, fr.Num, fr.BitsPerSample, f.bits)
	}

	n := int(fr.BlockSize)
	for _, sub := range fr.Subframes {
		n = min(n, len(sub.Samples))
	}

	w := f.packer.Width
	size := n * f.info.SampleSize
	if cap(f.out) < size {
		f.out = make([]byte, 0, size)
	}
	out := f.out[:size]

	off := 0
	for i := range n {
		for _, sub := range fr.Subframes {
			f.packer.Put(out[off:], sub.Samples[i])
			off += w
		}
	}

	return out, nil
}

// Decoder opens native FLAC streams.
type Decoder struct{}

func (Decoder) Open(r io.Reader, track audio.Track) (audio.FrameDecoder, error) {
	if err := audio.SingleTrack(track); err != nil {
		return nil, err
	}

	guard := audio.NewReaderGuard(r)
	stream, err := goflac.New(guard)
	if err != nil {
		if ioErr := guard.Err(); ioErr != nil {
			return nil, fmt.Errorf("read: %w", ioErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	dec, err := newFrames(stream, stream.Info, guard)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	return dec, nil
}
