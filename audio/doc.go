// SPDX-License-Identifier: EPL-2.0

// Package audio turns a forward-only, frame-granular decoder into a source
// that serves arbitrary forward sample ranges.
//
// # Decoders
//
// A FrameDecoder produces decoded audio one frame at a time, in stream
// order, and cannot seek:
//
//	type FrameDecoder interface {
//	    Info() StreamInfo
//	    NextFrame() ([]byte, error)
//	    Close() error
//	}
//
// Frames are little-endian interleaved PCM in the layout described by
// StreamInfo. A decoder reports a damaged but skippable unit by returning an
// error wrapping ErrCorruptFrame, and the end of the stream as io.EOF.
// Decoders for the individual formats live under formats/ and are opened
// through a Registry:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, err := registry.Open("wav", f, audio.TrackAny)
//
// # Sources
//
// A Source keeps a fixed-size Window of the most recently decoded bytes and
// decodes further frames on demand:
//
//	src, err := audio.NewSource(dec, audio.WithCapacity(1<<20))
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	pkt, err := src.GetSamples(0, 4096)
//	if err != nil {
//	    return err
//	}
//	// pkt.Data holds (4096 * SampleSize) bytes, fewer if pkt.EOF is set.
//
// Ranges larger than the window are split and read piece by piece, so a
// single request never needs more than one window of decoded audio. Bytes
// that have left the window cannot be read again: the first sample of
// successive requests must not decrease. Asking for evicted audio fails
// with ErrBackwardSeek and ends the stream.
//
// # Errors
//
// Corrupt units are skipped with a rate-limited warning, however many there
// are; WithMaxCorruptRun caps a run of them when wanted. Any other decoder
// error ends forward decoding for good: further reads that need new audio
// fail with ErrDecodeFailure, while bytes still in the window remain
// readable. Adapters whose codec library can lose sync without recovering
// use a StallDetector to turn that into such an error. Reaching the end of the stream is not an error;
// it is reported through Packet.EOF.
package audio
