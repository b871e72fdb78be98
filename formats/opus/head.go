// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SampleRate is the rate Ogg Opus is always decoded at.
const SampleRate = 48000

var headMagic = []byte("OpusHead")

// Head is the identification header of an Ogg Opus stream.
type Head struct {
	Version  int
	Channels int
	// PreSkip is the number of decoded samples to discard at the start.
	PreSkip int
	// InputRate is the rate of the original input, informational only.
	InputRate int
	// Gain is the output gain in Q7.8 dB.
	Gain   int16
	Family int
}

func isOpus(p []byte) bool { return bytes.HasPrefix(p, headMagic) }

// ParseHead decodes an OpusHead packet. Only channel mapping family 0,
// mono or stereo, is supported.
func ParseHead(p []byte) (Head, error) {
	if !isOpus(p) || len(p) < 19 {
		return Head{}, fmt.Errorf("%w: %d byte identification header", ErrInvalidHeader, len(p))
	}

	h := Head{
		Version:   int(p[8]),
		Channels:  int(p[9]),
		PreSkip:   int(binary.LittleEndian.Uint16(p[10:12])),
		InputRate: int(binary.LittleEndian.Uint32(p[12:16])),
		Gain:      int16(binary.LittleEndian.Uint16(p[16:18])),
		Family:    int(p[18]),
	}

	switch {
	case h.Version>>4 != 0:
		return Head{}, fmt.Errorf("%w: version %d", ErrInvalidHeader, h.Version)
	case h.Family != 0:
		return Head{}, fmt.Errorf("%w: channel mapping family %d", ErrUnsupportedLayout, h.Family)
	case h.Channels < 1 || h.Channels > 2:
		return Head{}, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, h.Channels)
	}

	return h, nil
}
