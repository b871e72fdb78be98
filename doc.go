// SPDX-License-Identifier: EPL-2.0

// Package audsrc opens audio files as range-addressable sources.
//
// A source decodes its input lazily and keeps a bounded window of decoded
// audio, so a consumer can ask for any forward range of samples without
// caring how the codec splits the stream into frames.
//
// # Supported Formats
//
//   - WAV and AIFF integer PCM via formats/wav and formats/aiff
//   - MP3 via formats/mp3
//   - FLAC via formats/flac
//   - Ogg Vorbis via formats/vorbis
//   - Ogg Opus via formats/opus, with the opus build tag
//
// # Quick Start
//
//	src, err := audsrc.Open("audio.flac", audio.TrackAny)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	// samples 44100 to 88200, as interleaved little-endian PCM
//	pkt, err := src.GetSamples(44100, 88200)
//
// The format follows the file extension. OpenReader detects it from the
// content instead, which is also what Open does for "-" (standard input).
//
// # Reading Sequentially
//
// Copy and ReadAll pull consecutive ranges until the stream ends:
//
//	out, _ := os.Create("out.wav")
//	w, _ := wav.NewWriter(out, src.Info())
//	_, err = audsrc.Copy(w, src, 0, 0, audsrc.DefaultChunk)
//	_ = w.Close()
//
// # Tracks
//
// Containers that can only hold one audio stream accept audio.TrackAny and
// track 0. Ogg files number every logical stream; see the vorbis package.
// ParseTrack turns command line input into an audio.Track.
//
// # Logging
//
// Sources log through github.com/pion/logging under the "audsrc" scope.
// Pass audio.WithLoggerFactory or audio.WithLogger to Open to redirect or
// silence them.
//
// See the audio subpackage for the window and error semantics.
package audsrc
