// SPDX-License-Identifier: EPL-2.0

// Package ogg reads Ogg pages and reassembles the packets of one logical
// stream. It does only what the decoders need: page capture with resync,
// CRC checking, lacing and serial demultiplexing.
package ogg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audsrc/audio"
)

// Header type flags.
const (
	FlagContinued byte = 0x01
	FlagBOS       byte = 0x02
	FlagEOS       byte = 0x04
)

const (
	headerSize = 27
	maxPage    = headerSize + 255 + 255*255
)

var capture = []byte("OggS")

var (
	ErrNotOgg = errors.New("not an Ogg stream")
	// ErrCorruptPage is returned for pages that fail the capture, version or
	// checksum checks. It wraps audio.ErrCorruptFrame.
	ErrCorruptPage = fmt.Errorf("%w: ogg page", audio.ErrCorruptFrame)
)

// Page is one Ogg page.
type Page struct {
	Flags    byte
	Granule  int64
	Serial   uint32
	Sequence uint32
	Segments []byte // lacing values
	Body     []byte
}

func (p *Page) BOS() bool       { return p.Flags&FlagBOS != 0 }
func (p *Page) EOS() bool       { return p.Flags&FlagEOS != 0 }
func (p *Page) Continued() bool { return p.Flags&FlagContinued != 0 }

// NewPage lays packets out on a single page. The last packet may be left
// open by setting open, in which case its data continues on the next page.
func NewPage(serial, sequence uint32, granule int64, flags byte, open bool, packets ...[]byte) *Page {
	p := &Page{Flags: flags, Granule: granule, Serial: serial, Sequence: sequence}
	for i, pkt := range packets {
		n := len(pkt)
		for ; n >= 255; n -= 255 {
			p.Segments = append(p.Segments, 255)
		}
		if !open || i < len(packets)-1 {
			p.Segments = append(p.Segments, byte(n))
		} else if n > 0 {
			// an open packet must end on a full segment
			panic("ogg: open packet length must be a multiple of 255")
		}
		p.Body = append(p.Body, pkt...)
	}

	return p
}

// AppendTo serializes the page, checksum included, and appends it to dst.
func (p *Page) AppendTo(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, capture...)
	dst = append(dst, 0, p.Flags)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(p.Granule))
	dst = binary.LittleEndian.AppendUint32(dst, p.Serial)
	dst = binary.LittleEndian.AppendUint32(dst, p.Sequence)
	dst = append(dst, 0, 0, 0, 0, byte(len(p.Segments)))
	dst = append(dst, p.Segments...)
	dst = append(dst, p.Body...)

	binary.LittleEndian.PutUint32(dst[start+22:], checksum(dst[start:]))

	return dst
}

// Reader reads pages from a byte stream.
type Reader struct {
	br *bufio.Reader
	// Skipped counts the bytes discarded while looking for a page.
	Skipped int64
	pages   int64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, maxPage)}
}

// ReadPage returns the next page. Garbage before a page and pages failing
// their checks are reported as ErrCorruptPage; the following call carries on
// with the next page. The returned page is not retained by the Reader.
func (r *Reader) ReadPage() (*Page, error) {
	skipped, err := r.sync()
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		return nil, fmt.Errorf("%w: skipped %d bytes before page %d", ErrCorruptPage, skipped, r.pages)
	}

	hdr, err := r.br.Peek(headerSize)
	if err != nil {
		return nil, r.truncated(err)
	}
	if hdr[4] != 0 {
		_, _ = r.br.Discard(1)
		r.Skipped++
		return nil, fmt.Errorf("%w: version %d", ErrCorruptPage, hdr[4])
	}

	nseg := int(hdr[26])
	full, err := r.br.Peek(headerSize + nseg)
	if err != nil {
		return nil, r.truncated(err)
	}
	bodyLen := 0
	for _, l := range full[headerSize:] {
		bodyLen += int(l)
	}

	size := headerSize + nseg + bodyLen
	raw, err := r.br.Peek(size)
	if err != nil {
		return nil, r.truncated(err)
	}

	want := binary.LittleEndian.Uint32(raw[22:26])
	if got := checksumZeroed(raw); got != want {
		// a false capture: resync from the next byte
		_, _ = r.br.Discard(1)
		r.Skipped++
		return nil, fmt.Errorf("%w: page %d checksum %08x, want %08x", ErrCorruptPage, r.pages, got, want)
	}

	p := &Page{
		Flags:    raw[5],
		Granule:  int64(binary.LittleEndian.Uint64(raw[6:14])),
		Serial:   binary.LittleEndian.Uint32(raw[14:18]),
		Sequence: binary.LittleEndian.Uint32(raw[18:22]),
		Segments: bytes.Clone(raw[headerSize : headerSize+nseg]),
		Body:     bytes.Clone(raw[headerSize+nseg:]),
	}
	_, _ = r.br.Discard(size)
	r.pages++

	return p, nil
}

// sync discards bytes up to the next capture pattern.
func (r *Reader) sync() (int, error) {
	skipped := 0
	for {
		b, err := r.br.Peek(len(capture))
		if bytes.Equal(b, capture) {
			return skipped, nil
		}
		if err != nil {
			// trailing bytes too short to hold a page
			r.Skipped += int64(len(b))
			if errors.Is(err, io.EOF) {
				return skipped, io.EOF
			}
			return skipped, err
		}

		prefix := r.bufferedPrefix()
		i := bytes.IndexByte(prefix[1:], capture[0]) + 1
		if i == 0 {
			i = len(prefix)
		}
		_, _ = r.br.Discard(i)
		skipped += i
		r.Skipped += int64(i)
	}
}

// bufferedPrefix returns what is already buffered without reading more.
func (r *Reader) bufferedPrefix() []byte {
	b, _ := r.br.Peek(r.br.Buffered())
	return b
}

func (r *Reader) truncated(err error) error {
	if errors.Is(err, io.EOF) {
		n := r.br.Buffered()
		_, _ = r.br.Discard(n)
		r.Skipped += int64(n)
		return fmt.Errorf("%w: truncated page %d", ErrCorruptPage, r.pages)
	}

	return err
}
