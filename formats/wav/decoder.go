// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/pcmframes"
	"github.com/ik5/audsrc/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

// Decoder opens integer PCM WAV files.
type Decoder struct {
	// FrameLen is the number of samples per frame,
	// pcmframes.DefaultFrameLen when zero.
	FrameLen int
}

func (d Decoder) Open(r io.Reader, track audio.Track) (audio.FrameDecoder, error) {
	if err := audio.SingleTrack(track); err != nil {
		return nil, err
	}

	rs, err := pcmframes.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	bits := int(dec.BitDepth)
	format, ok := audio.IntFormat(bits)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	// Samples are left-justified in whole bytes. 8-bit WAV is unsigned
	// already, everything wider is signed.
	packer, err := utils.NewPacker(format.Size()*8, bits > 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	frameLen := d.FrameLen
	if frameLen <= 0 {
		frameLen = pcmframes.DefaultFrameLen
	}

	info := audio.NewStreamInfo("pcm_"+format.String(), int(dec.SampleRate), channels, format, frameLen)
	if bytesPerSample := int64(packer.Width) * int64(channels); bytesPerSample > 0 {
		info.NumSamples = dec.PCMLen() / bytesPerSample
	}

	return pcmframes.New(dec, info, packer, nil), nil
}
