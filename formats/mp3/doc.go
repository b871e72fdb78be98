// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files and
// hands out its output one MP3 frame (1152 samples) at a time, ready to be
// wrapped in an audio.Source.
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("audio.mp3")
//	dec, err := mp3.Decoder{}.Open(file, audio.TrackAny)
//	if err != nil {
//	    // Handle error
//	}
//
//	src, err := audio.NewSource(dec)
//	pkt, err := src.GetSamples(0, 44100)
//
// # Output Format
//
//   - Sample format: interleaved s16le
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Sample rate: as stored in the file
//
// When the input can seek, go-mp3 scans it once to compute the length and
// StreamInfo.NumSamples is set; otherwise it stays 0.
//
// # Damaged Input
//
// go-mp3 resynchronises on its own after most damage. A read error it
// reports is surfaced as a corrupt unit, which audio.Source skips, unless
// the underlying reader failed, which ends decoding.
package mp3
