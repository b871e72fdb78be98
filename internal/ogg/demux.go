// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audsrc/audio"
)

// Stream is one logical stream announced at the start of a physical stream.
type Stream struct {
	// Index is the position of the stream's BOS page, counting from 0.
	Index  int
	Serial uint32
	// Header is the first packet of the stream, used to identify the codec.
	Header []byte
}

// Demuxer splits a physical Ogg stream into its logical streams.
type Demuxer struct {
	r       *Reader
	streams []Stream
	// pages read while scanning the headers, replayed to the packet reader
	queued []*Page
}

// NewDemuxer reads the BOS pages that open the stream.
func NewDemuxer(r io.Reader) (*Demuxer, error) {
	d := &Demuxer{r: NewReader(r)}

	for {
		p, err := d.r.ReadPage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(d.streams) == 0 {
				if errors.Is(err, audio.ErrCorruptFrame) {
					return nil, fmt.Errorf("%w: %w", ErrNotOgg, err)
				}
				return nil, err
			}
			if errors.Is(err, audio.ErrCorruptFrame) {
				continue
			}
			return nil, err
		}

		d.queued = append(d.queued, p)
		if !p.BOS() {
			break
		}

		d.streams = append(d.streams, Stream{
			Index:  len(d.streams),
			Serial: p.Serial,
			Header: firstPacket(p),
		})
	}

	if len(d.streams) == 0 {
		return nil, ErrNotOgg
	}

	return d, nil
}

// Streams lists the logical streams in BOS order.
func (d *Demuxer) Streams() []Stream { return d.streams }

func (d *Demuxer) nextPage() (*Page, error) {
	if len(d.queued) > 0 {
		p := d.queued[0]
		d.queued = d.queued[1:]
		return p, nil
	}

	return d.r.ReadPage()
}

func firstPacket(p *Page) []byte {
	n := 0
	for _, l := range p.Segments {
		n += int(l)
		if l < 255 {
			break
		}
	}

	return p.Body[:n]
}

// Packet is one reassembled packet.
type Packet struct {
	Data []byte
	// Granule is the granule position of the page the packet ends on when
	// it is the last packet finishing there, -1 otherwise.
	Granule int64
	// Last is set on the final packet of the logical stream.
	Last bool
}

// PacketReader returns the packets of one logical stream in order.
type PacketReader struct {
	d      *Demuxer
	serial uint32

	ready   []Packet
	partial []byte
	open    bool // partial holds the head of a packet

	seq    uint32
	seqSet bool
	eos    bool
}

// Packets returns a reader over the packets of the stream with the given
// serial. Pages of other streams are skipped. Only one reader may be used
// per Demuxer.
func (d *Demuxer) Packets(serial uint32) *PacketReader {
	return &PacketReader{d: d, serial: serial}
}

// NextPacket returns the next packet, io.EOF after the last one. Lost or
// damaged pages are reported as errors wrapping audio.ErrCorruptFrame; the
// packets they touched are dropped and reading may continue.
func (pr *PacketReader) NextPacket() (Packet, error) {
	for len(pr.ready) == 0 {
		if pr.eos {
			return Packet{}, io.EOF
		}

		p, err := pr.d.nextPage()
		if errors.Is(err, io.EOF) {
			pr.eos = true
			if pr.open {
				pr.drop()
				return Packet{}, fmt.Errorf("%w: stream %08x ends inside a packet", ErrCorruptPage, pr.serial)
			}
			continue
		}
		if err != nil {
			if errors.Is(err, audio.ErrCorruptFrame) {
				pr.drop()
			}
			return Packet{}, err
		}

		if p.Serial != pr.serial {
			continue
		}
		if err := pr.push(p); err != nil {
			return Packet{}, err
		}
	}

	pkt := pr.ready[0]
	pr.ready = pr.ready[1:]

	return pkt, nil
}

func (pr *PacketReader) drop() {
	pr.partial = nil
	pr.open = false
}

// push splits a page into packets. A gap in the page sequence or a
// continuation that does not match what came before is reported after the
// page's complete packets have been queued.
func (pr *PacketReader) push(p *Page) error {
	var lost error
	if pr.seqSet && p.Sequence != pr.seq+1 {
		lost = fmt.Errorf("%w: stream %08x lost %d pages", ErrCorruptPage, pr.serial, p.Sequence-pr.seq-1)
		pr.drop()
	}
	pr.seq, pr.seqSet = p.Sequence, true

	if pr.open && !p.Continued() {
		lost = fmt.Errorf("%w: stream %08x page %d drops a continued packet", ErrCorruptPage, pr.serial, p.Sequence)
		pr.drop()
	}
	skip := p.Continued() && !pr.open

	last := -1
	for i, l := range p.Segments {
		if l < 255 {
			last = i
		}
	}

	off := 0
	for i, l := range p.Segments {
		seg := p.Body[off : off+int(l)]
		off += int(l)

		if skip {
			// tail of a packet whose head was lost
			skip = l == 255
			continue
		}

		pr.partial = append(pr.partial, seg...)
		pr.open = true
		if l == 255 {
			continue
		}

		pkt := Packet{Data: pr.partial, Granule: -1}
		if i == last {
			pkt.Granule = p.Granule
			pkt.Last = p.EOS()
		}
		pr.ready = append(pr.ready, pkt)
		pr.drop()
	}

	if p.EOS() {
		pr.eos = true
		pr.drop()
	}

	return lost
}
