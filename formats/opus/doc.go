// SPDX-License-Identifier: EPL-2.0

// Package opus provides Ogg Opus decoding into audio frames.
//
// Pages are demultiplexed by the module's own Ogg reader and packets are
// decoded with libopus through gopkg.in/hraban/opus.v2. The decoder needs
// cgo and the libopus headers, so it is only built with the opus build tag:
//
//	go build -tags opus ./...
//
// Header parsing and track selection build without the tag.
//
// # Output Format
//
//   - Sample format: interleaved s16le
//   - Sample rate: always 48 kHz, whatever the original input rate was
//   - Channels: 1 or 2 (channel mapping family 0)
//
// The pre-skip announced in the header is dropped from the start and the
// last packet is trimmed to the final granule position. The header's
// output gain is not applied.
//
// # Tracks
//
// Tracks count every logical stream of the Ogg file in the order of their
// first pages. audio.TrackAny picks the first Opus stream.
package opus
