// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// SampleFormat is the encoding of one channel sample in the decoded byte
// stream. Every format is little-endian and channels are interleaved.
type SampleFormat uint8

const (
	FormatUnknown SampleFormat = iota
	FormatU8
	FormatS16
	FormatS24
	FormatS32
	FormatF32
)

// Size returns the width of one channel sample in bytes.
func (f SampleFormat) Size() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatF32:
		return 4
	}

	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16le"
	case FormatS24:
		return "s24le"
	case FormatS32:
		return "s32le"
	case FormatF32:
		return "f32le"
	}

	return "unknown"
}

// IntFormat returns the smallest integer format able to hold bits-wide samples.
func IntFormat(bits int) (SampleFormat, bool) {
	switch {
	case bits <= 0 || bits > 32:
		return FormatUnknown, false
	case bits <= 8:
		return FormatU8, true
	case bits <= 16:
		return FormatS16, true
	case bits <= 24:
		return FormatS24, true
	}

	return FormatS32, true
}

// TimeBase is a rational unit of time, Num/Den seconds.
type TimeBase struct {
	Num int
	Den int
}

// StreamInfo describes the decoded audio produced by a FrameDecoder.
// It is fixed once the decoder has been opened.
type StreamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
	Format     SampleFormat

	// ChanSize is the number of bytes of one sample of one channel.
	ChanSize int
	// SampleSize is the number of bytes of one sample across all channels.
	SampleSize int
	// FrameLen is the decoder's native frame length in samples.
	FrameLen int
	// FrameSize is FrameLen in bytes.
	FrameSize int

	TimeBase      TimeBase
	ChannelLayout uint64 // 0 when unknown
	Extradata     []byte

	// NumSamples is the total stream length in samples, 0 when unknown.
	NumSamples int64
}

// NewStreamInfo fills the derived size fields from the basic parameters.
func NewStreamInfo(codec string, sampleRate, channels int, format SampleFormat, frameLen int) StreamInfo {
	chanSize := format.Size()

	return StreamInfo{
		Codec:      codec,
		SampleRate: sampleRate,
		Channels:   channels,
		Format:     format,
		ChanSize:   chanSize,
		SampleSize: chanSize * channels,
		FrameLen:   frameLen,
		FrameSize:  frameLen * chanSize * channels,
		TimeBase:   TimeBase{Num: 1, Den: sampleRate},
	}
}

// Validate reports whether the sizes are usable for byte addressing.
func (i StreamInfo) Validate() error {
	switch {
	case i.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidStreamInfo, i.SampleRate)
	case i.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrInvalidStreamInfo, i.Channels)
	case i.ChanSize <= 0:
		return fmt.Errorf("%w: channel sample size %d", ErrInvalidStreamInfo, i.ChanSize)
	case i.SampleSize != i.ChanSize*i.Channels:
		return fmt.Errorf("%w: sample size %d != %d x %d",
			ErrInvalidStreamInfo, i.SampleSize, i.ChanSize, i.Channels)
	case i.FrameLen <= 0 || i.FrameSize != i.FrameLen*i.SampleSize:
		return fmt.Errorf("%w: frame of %d samples / %d bytes",
			ErrInvalidStreamInfo, i.FrameLen, i.FrameSize)
	}

	return nil
}

// ByteOffset converts a sample index to its sample-byte offset.
func (i StreamInfo) ByteOffset(sample uint64) uint64 {
	return sample * uint64(i.SampleSize)
}

// Track selects one audio stream of a container.
type Track int

// TrackAny selects the first audio track found.
const TrackAny Track = -1

func (t Track) String() string {
	if t < 0 {
		return "any"
	}

	return fmt.Sprintf("%d", int(t))
}

// SingleTrack validates a track selector against a container that can only
// ever hold one audio stream.
func SingleTrack(t Track) error {
	if t == TrackAny || t == 0 {
		return nil
	}

	return fmt.Errorf("%w: requested track %d, container holds a single audio track",
		ErrUnsupportedTrack, int(t))
}

// FrameDecoder is a forward-only, frame-granular audio decoder bound to one
// track.
//
// NextFrame returns the next decoded frame. The returned slice is only valid
// until the following call. End of stream is reported as io.EOF, a damaged
// but skippable unit as an error wrapping ErrCorruptFrame, and anything else
// is a stream level failure.
type FrameDecoder interface {
	Info() StreamInfo
	NextFrame() ([]byte, error)
	Close() error
}

// Decoder opens a FrameDecoder for the selected track of an input.
type Decoder interface {
	Open(r io.Reader, track Track) (FrameDecoder, error)
}

type registryEntry struct {
	dec         Decoder
	description string
}

// Registry for decoders by format key (e.g., "wav", "mp3", "flac").
// Keys are case-insensitive.
type Registry struct {
	codecs map[string]registryEntry

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]registryEntry),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.RegisterWithDescription(format, "", d)
}

func (r *Registry) RegisterWithDescription(format, description string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = registryEntry{dec: d, description: description}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	e, ok := r.codecs[strings.ToLower(format)]
	return e.dec, ok
}

// Describe returns the description a format was registered with.
func (r *Registry) Describe(format string) string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.codecs[strings.ToLower(format)].description
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	formats := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	return formats
}

// Open looks up format and opens the selected track of rd with it.
func (r *Registry) Open(format string, rd io.Reader, track Track) (FrameDecoder, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	fd, err := d.Open(rd, track)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	return fd, nil
}
