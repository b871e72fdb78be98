// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	govorbis "github.com/jfreymuth/vorbis"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/ogg"
	"github.com/ik5/audsrc/utils"
)

// FrameLen is the number of samples handed out per frame. Decoded packets
// longer than this are split.
const FrameLen = 4096

// packetSource is an interface for ogg.PacketReader to allow testing
type packetSource interface {
	NextPacket() (ogg.Packet, error)
}

// vorbisDecoder is an interface for vorbis.Decoder to allow testing
type vorbisDecoder interface {
	ReadHeader([]byte) error
	HeadersRead() bool
	SampleRate() int
	Channels() int
	Decode([]byte) ([]float32, error)
}

type frames struct {
	pkts packetSource
	dec  vorbisDecoder
	info audio.StreamInfo
	cur  audio.Cursor

	// decoded counts the samples produced, used to trim the last packet
	// to the final granule position.
	decoded int64
	done    bool
}

// newFrames feeds the three header packets to dec.
func newFrames(pkts packetSource, dec vorbisDecoder) (*frames, error) {
	for !dec.HeadersRead() {
		pkt, err := pkts.NextPacket()
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeaders
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingHeaders, err)
		}
		if err := dec.ReadHeader(pkt.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
	}

	return &frames{
		pkts: pkts,
		dec:  dec,
		info: audio.NewStreamInfo("vorbis", dec.SampleRate(), dec.Channels(), audio.FormatS16, FrameLen),
	}, nil
}

func (f *frames) Info() audio.StreamInfo { return f.info }
func (f *frames) Close() error           { return nil }

func (f *frames) NextFrame() ([]byte, error) {
	for f.cur.Remaining() == 0 {
		if f.done {
			return nil, io.EOF
		}

		pkt, err := f.pkts.NextPacket()
		if errors.Is(err, io.EOF) {
			f.done = true
			continue
		}
		if err != nil {
			return nil, err
		}

		pcm, err := f.dec.Decode(pkt.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrCorruptFrame, err)
		}

		ch := f.info.Channels
		n := int64(len(pcm) / ch)
		if pkt.Last {
			f.done = true
			if pkt.Granule >= 0 && f.decoded+n > pkt.Granule {
				n = max(pkt.Granule-f.decoded, 0)
			}
		}
		f.decoded += n

		buf := f.cur.Buffer(int(n) * f.info.SampleSize)
		f.cur.Load(utils.AppendInt16LE(buf, pcm[:int(n)*ch]))
	}

	return f.cur.Take(f.info.FrameSize), nil
}

// Decoder opens Ogg Vorbis streams.
//
// Track selection counts the logical streams of the Ogg file in the order
// their first pages appear. audio.TrackAny picks the first Vorbis stream;
// an explicit index must name a Vorbis stream.
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

	return newFrames(demux.Packets(st.Serial), &govorbis.Decoder{})
}

func selectStream(streams []ogg.Stream, track audio.Track) (ogg.Stream, error) {
	if track == audio.TrackAny {
		for _, s := range streams {
			if isVorbis(s.Header) {
				return s, nil
			}
		}
		return ogg.Stream{}, fmt.Errorf("%w: none of %d logical streams is Vorbis",
			audio.ErrUnsupportedTrack, len(streams))
	}

	if track < 0 || int(track) >= len(streams) {
		return ogg.Stream{}, fmt.Errorf("%w: track %d of %d logical streams",
			audio.ErrUnsupportedTrack, int(track), len(streams))
	}

	s := streams[track]
	if !isVorbis(s.Header) {
		return ogg.Stream{}, fmt.Errorf("%w: track %d is not Vorbis", audio.ErrUnsupportedTrack, int(track))
	}

	return s, nil
}

// isVorbis reports whether p is a Vorbis identification header.
func isVorbis(p []byte) bool {
	return len(p) >= 7 && p[0] == 1 && string(p[1:7]) == "vorbis"
}
