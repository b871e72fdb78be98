package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/pcmframes"
	"github.com/ik5/audsrc/utils"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Decoder opens uncompressed AIFF files.
type Decoder struct {
	// FrameLen is the number of samples per frame,
	// pcmframes.DefaultFrameLen when zero.
	FrameLen int
}

func (d Decoder) Open(r io.Reader, track audio.Track) (audio.FrameDecoder, error) {
	if err := audio.SingleTrack(track); err != nil {
		return nil, err
	}

	// go-audio requires io.ReadSeeker
	rs, err := pcmframes.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	// Read file info
	dec.ReadInfo()

	return d.newFrames(dec, int(dec.BitDepth), int64(dec.NumSampleFrames))
}

func (d Decoder) newFrames(dec aiffReader, bits int, numSamples int64) (*pcmframes.Decoder, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	sampleFormat, ok := audio.IntFormat(bits)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	// AIFF samples are signed and left-justified in whole bytes. 8-bit
	// output is unsigned, so those get biased.
	packer, err := utils.NewPacker(sampleFormat.Size()*8, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}

	frameLen := d.FrameLen
	if frameLen <= 0 {
		frameLen = pcmframes.DefaultFrameLen
	}

	info := audio.NewStreamInfo("pcm_"+sampleFormat.String(), format.SampleRate, format.NumChannels, sampleFormat, frameLen)
	info.NumSamples = numSamples

	return pcmframes.New(dec, info, packer, nil), nil
}
