// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audsrc/audio"
)

const (
	headerSize      = 44
	formatIEEEFloat = 3
)

// WriteHeader writes a canonical 44-byte WAV header for dataSize bytes of
// audio in the layout described by info.
func WriteHeader(w io.Writer, info audio.StreamInfo, dataSize uint32) error {
	tag := uint16(formatPCM)
	if info.Format == audio.FormatF32 {
		tag = formatIEEEFloat
	}

	numChannels := uint16(info.Channels)
	bitsPerSample := uint16(info.ChanSize * 8)
	byteRate := uint32(info.SampleRate) * uint32(info.SampleSize)
	blockAlign := uint16(info.SampleSize)
	riffSize := 36 + dataSize

	header := make([]byte, headerSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], tag)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(info.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Writer streams decoded audio into a WAV file. When the destination can
// seek, Close rewrites the header with the final sizes; otherwise the sizes
// are left at their maximum, which most readers treat as "until EOF".
type Writer struct {
	w       io.Writer
	info    audio.StreamInfo
	written uint64
	closed  bool
}

// NewWriter writes a provisional header and returns a Writer for PCM in
// the layout of info.
func NewWriter(w io.Writer, info audio.StreamInfo) (*Writer, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	if err := WriteHeader(w, info, math.MaxUint32-36); err != nil {
		return nil, err
	}

	return &Writer{w: w, info: info}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.written += uint64(n)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}

// Written is the number of audio bytes written so far.
func (w *Writer) Written() uint64 { return w.written }

// Close finalises the header. It does not close the destination.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	ws, ok := w.w.(io.WriteSeeker)
	if !ok {
		return nil
	}

	size := uint32(min(w.written, math.MaxUint32-36))
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := WriteHeader(ws, w.info, size); err != nil {
		return err
	}
	if _, err := ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	info := audio.NewStreamInfo("pcm_s16le", sampleRate, 1, audio.FormatS16, 1)
	if err := WriteHeader(w, info, uint32(len(samples)*2)); err != nil {
		return err
	}

	if len(samples) == 0 {
		return nil
	}

	// write in chunks of at most 8192 samples
	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:j*2+2], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
