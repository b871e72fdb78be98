// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrUnsupportedTrack  = errors.New("requested track is unavailable or is not an audio track")
	ErrBackwardSeek      = errors.New("backward seeking not supported")
	ErrDecodeFailure     = errors.New("decode failure")
	ErrCorruptFrame      = errors.New("corrupt frame")
	ErrFrameTooLarge     = errors.New("decoded frame larger than the decode window")
	ErrInvalidRange      = errors.New("invalid sample range")
	ErrInvalidCapacity   = errors.New("decode window too small for the frame margin")
	ErrInvalidStreamInfo = errors.New("invalid stream info")
	ErrEmptyStream       = errors.New("stream holds no decodable audio")
	ErrClosed            = errors.New("source is closed")
	ErrUnknownFormat     = errors.New("unknown format")
)
