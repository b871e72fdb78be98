// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding into audio frames and WAV writing.
//
// Decoding uses github.com/go-audio/wav. Integer PCM of 8, 16, 24 and 32
// bits is supported, with any number of channels and any sample rate.
// Samples are re-packed as little-endian bytes of the same width; 8-bit
// audio stays unsigned, as WAV stores it.
//
//	f, _ := os.Open("audio.wav")
//	dec, err := wav.Decoder{}.Open(f, audio.TrackAny)
//	if err != nil {
//	    // Handle error
//	}
//	src, err := audio.NewSource(dec)
//
// A WAV file holds a single audio track, so only audio.TrackAny and track 0
// can be opened. go-audio needs to seek; input that cannot seek is read
// into memory first.
//
// # Writing
//
// Writer streams PCM of any layout behind a canonical 44-byte header and
// patches the sizes on Close when the destination can seek. WriteWAV16 is
// a shortcut for mono 16-bit buffers:
//
//	out, _ := os.Create("out.wav")
//	w, _ := wav.NewWriter(out, src.Info())
//	_, _ = w.Write(pkt.Data)
//	_ = w.Close()
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrUnsupportedWavLayout: compressed or float audio
//   - ErrUnsupportedBitDepth: bit depth outside 1..32
//   - ErrUnsupportedWavChunks: no data chunk could be found
package wav
