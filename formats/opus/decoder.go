// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goopus "gopkg.in/hraban/opus.v2"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/ogg"
)

// FrameLen is the longest Opus packet, 120 ms at 48 kHz.
const FrameLen = 5760

// packetSource is an interface for ogg.PacketReader to allow testing
type packetSource interface {
	NextPacket() (ogg.Packet, error)
}

// opusDecoder is an interface for opus.Decoder to allow testing
type opusDecoder interface {
	Decode(data []byte, pcm []int16) (int, error)
}

type frames struct {
	pkts packetSource
	dec  opusDecoder
	info audio.StreamInfo
	pcm  []int16
	out  []byte

	// skip is what is left of the pre-skip.
	skip int
	// pos counts decoded samples, pre-skip included, like granule positions.
	pos  int64
	done bool
}

// newFrames skips the comment header; the identification header has
// already been read by the caller.
func newFrames(pkts packetSource, head Head, dec opusDecoder) (*frames, error) {
	if _, err := pkts.NextPacket(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeaders
		}
		return nil, fmt.Errorf("%w: %w", ErrMissingHeaders, err)
	}

	info := audio.NewStreamInfo("opus", SampleRate, head.Channels, audio.FormatS16, FrameLen)

	return &frames{
		pkts: pkts,
		dec:  dec,
		info: info,
		pcm:  make([]int16, FrameLen*head.Channels),
		out:  make([]byte, 0, info.FrameSize),
		skip: head.PreSkip,
	}, nil
}

func (f *frames) Info() audio.StreamInfo { return f.info }
func (f *frames) Close() error           { return nil }

func (f *frames) NextFrame() ([]byte, error) {
	for !f.done {
		pkt, err := f.pkts.NextPacket()
		if errors.Is(err, io.EOF) {
			f.done = true
			break
		}
		if err != nil {
			return nil, err
		}

		n, err := f.dec.Decode(pkt.Data, f.pcm)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrCorruptFrame, err)
		}

		start := min(f.skip, n)
		f.skip -= start

		end := n
		if pkt.Last {
			f.done = true
			if pkt.Granule >= 0 {
				end = int(min(max(pkt.Granule-f.pos, 0), int64(n)))
			}
		}
		f.pos += int64(n)

		if end <= start {
			continue
		}

		ch := f.info.Channels
		out := f.out[:0]
		for _, s := range f.pcm[start*ch : end*ch] {
			out = binary.LittleEndian.AppendUint16(out, uint16(s))
		}
		f.out = out

		return out, nil
	}

	return nil, io.EOF
}

// Decoder opens Ogg Opus streams.
//
// Tracks are numbered like in the vorbis package: every logical stream of
// the Ogg file counts, audio.TrackAny picks the first Opus stream.
type Decoder struct{}

func (Decoder) Open(r io.Reader, track audio.Track) (audio.FrameDecoder, error) {
	demux, err := ogg.NewDemuxer(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	st, err := selectStream(demux.Streams(), track)
	if err != nil {
		return nil, err
	}

	head, err := ParseHead(st.Header)
	if err != nil {
		return nil, err
	}

	pkts := demux.Packets(st.Serial)
	// the identification header, already parsed
	if _, err := pkts.NextPacket(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingHeaders, err)
	}

	dec, err := goopus.NewDecoder(SampleRate, head.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newFrames(pkts, head, dec)
}
