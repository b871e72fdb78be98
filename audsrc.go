// SPDX-License-Identifier: EPL-2.0

package audsrc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/formats/aiff"
	"github.com/ik5/audsrc/formats/flac"
	"github.com/ik5/audsrc/formats/mp3"
	"github.com/ik5/audsrc/formats/vorbis"
	"github.com/ik5/audsrc/formats/wav"
)

// Stdin is the name Open reads standard input for.
const Stdin = "-"

// DefaultRegistry returns a registry holding every built-in format, keyed
// by file extension.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.RegisterWithDescription("wav", "WAV, integer PCM", wav.Decoder{})
	r.RegisterWithDescription("wave", "WAV, integer PCM", wav.Decoder{})
	r.RegisterWithDescription("mp3", "MPEG-1/2 Layer III", mp3.Decoder{})
	r.RegisterWithDescription("aif", "AIFF, integer PCM", aiff.Decoder{})
	r.RegisterWithDescription("aiff", "AIFF, integer PCM", aiff.Decoder{})
	r.RegisterWithDescription("flac", "FLAC", flac.Decoder{})
	r.RegisterWithDescription("ogg", "Ogg Vorbis", vorbis.Decoder{})
	r.RegisterWithDescription("oga", "Ogg Vorbis", vorbis.Decoder{})
	registerOpus(r)

	return r
}

// FormatOf returns the registry key for a file name: its extension, lower
// case and without the dot.
func FormatOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ParseTrack parses a track selector: "" or "any" for audio.TrackAny,
// otherwise a non-negative stream index.
func ParseTrack(s string) (audio.Track, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") {
		return audio.TrackAny, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return audio.TrackAny, fmt.Errorf("%w: %q", audio.ErrUnsupportedTrack, s)
	}

	return audio.Track(n), nil
}

// Open opens a file and returns a Source over the selected track. The
// format follows the file extension. Stdin reads standard input and
// detects the format from the content. The file is closed with the Source.
func Open(name string, track audio.Track, opts ...audio.Option) (*audio.Source, error) {
	return OpenFormat(name, "", track, opts...)
}

// OpenFormat is Open with an explicit format. An empty format is taken from
// the extension, or detected for Stdin.
func OpenFormat(name, format string, track audio.Track, opts ...audio.Option) (*audio.Source, error) {
	if name == Stdin {
		return OpenReader(os.Stdin, format, track, opts...)
	}

	if format == "" {
		format = FormatOf(name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	dec, err := DefaultRegistry().Open(format, f, track)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return audio.NewSource(&closingDecoder{FrameDecoder: dec, c: f}, opts...)
}

// OpenReader returns a Source over the selected track of r. An empty
// format is detected from the first bytes of r.
func OpenReader(r io.Reader, format string, track audio.Track, opts ...audio.Option) (*audio.Source, error) {
	if format == "" {
		var err error
		if format, r, err = Sniff(r); err != nil {
			return nil, err
		}
	}

	dec, err := DefaultRegistry().Open(format, r, track)
	if err != nil {
		return nil, err
	}

	return audio.NewSource(dec, opts...)
}

// Sniff detects the container of r from its first bytes. The returned
// reader replays what was consumed.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReader(r)

	// an Ogg page header is 27 bytes plus the lacing table; the codec
	// magic of the first packet follows
	head, err := br.Peek(64)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", br, err
	}

	switch {
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return "wav", br, nil
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return "aiff", br, nil
	case bytes.HasPrefix(head, []byte("fLaC")):
		return "flac", br, nil
	case bytes.HasPrefix(head, []byte("OggS")):
		if len(head) > 27 {
			if off := 27 + int(head[26]); off < len(head) && bytes.HasPrefix(head[off:], []byte("OpusHead")) {
				return "opus", br, nil
			}
		}
		return "ogg", br, nil
	case bytes.HasPrefix(head, []byte("ID3")),
		len(head) >= 2 && head[0] == 0xff && head[1]&0xe0 == 0xe0:
		return "mp3", br, nil
	}

	return "", br, fmt.Errorf("%w: unrecognised content", audio.ErrUnknownFormat)
}

// closingDecoder closes the file a decoder reads from together with it.
type closingDecoder struct {
	audio.FrameDecoder
	c io.Closer
}

func (d *closingDecoder) Close() error {
	return errors.Join(d.FrameDecoder.Close(), d.c.Close())
}
