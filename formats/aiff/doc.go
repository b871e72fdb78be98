// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files and hands
// the audio out as frames of little-endian interleaved PCM:
//
//	f, _ := os.Open("audio.aif")
//	dec, err := aiff.Decoder{}.Open(f, audio.TrackAny)
//	if err != nil {
//	    // Handle error
//	}
//	src, err := audio.NewSource(dec)
//
// # Output Format
//
// AIFF stores big-endian signed samples. They are re-packed to
// little-endian of the same width: 8-bit audio becomes unsigned (u8),
// 16, 24 and 32-bit audio stays signed. Bit depths that do not fill a whole
// byte keep their container width.
//
// # Error Handling
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: bit depth outside 1..32
//   - ErrUnsupportedAiffLayout: no channels or no sample rate
//
// An AIFF file holds a single audio track: only audio.TrackAny and track 0
// can be opened. Input that cannot seek is read into memory first.
package aiff
