// SPDX-License-Identifier: EPL-2.0

// Package flac provides native FLAC decoding into audio frames.
//
// Decoding uses github.com/mewkiz/flac. Every call to NextFrame parses one
// FLAC frame and interleaves its channels, so frames follow the block size
// chosen by the encoder; StreamInfo.FrameLen is the largest block size the
// stream declares.
//
//	f, _ := os.Open("audio.flac")
//	dec, err := flac.Decoder{}.Open(f, audio.TrackAny)
//	if err != nil {
//	    // Handle error
//	}
//	src, err := audio.NewSource(dec)
//
// # Output Format
//
// Samples are packed little-endian into the smallest whole number of bytes
// holding the stream's bit depth and left-justified, so 12-bit audio comes
// out as s16le and 20-bit audio as s24le. 8-bit audio is biased to unsigned.
//
// # Damaged Input
//
// Frames failing their CRC check, or whose layout disagrees with the
// stream header, are reported as corrupt units. A failing reader ends
// decoding.
package flac
