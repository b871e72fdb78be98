// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// Pages are demultiplexed by the module's own Ogg reader and the packets of
// the selected logical stream are decoded with github.com/jfreymuth/vorbis.
// Vorbis is a free, open-source lossy audio compression format.
//
// # Decoding Vorbis Files
//
//	file, _ := os.Open("audio.ogg")
//	dec, err := vorbis.Decoder{}.Open(file, audio.TrackAny)
//	if err != nil {
//	    // Handle error
//	}
//
//	src, err := audio.NewSource(dec)
//
// # Tracks
//
// An Ogg file may carry several logical streams. Tracks are numbered in
// the order of their first pages, counting streams of every codec.
// audio.TrackAny selects the first Vorbis stream; asking for a stream that
// is not Vorbis fails with audio.ErrUnsupportedTrack. Pages of the other
// streams are skipped.
//
// # Output Format
//
//   - Sample format: interleaved s16le, converted from the decoder's floats
//   - Channels and sample rate: as stored in the file
//   - Frames of up to 4096 samples; longer packets are split
//
// The final packet is trimmed to the granule position of the last page, so
// the decoded length matches the encoded one.
//
// # Damaged Input
//
// Pages failing their checksum, lost pages and packets the decoder rejects
// are reported as corrupt units and skipped by audio.Source.
package vorbis
