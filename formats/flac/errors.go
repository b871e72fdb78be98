// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrNotFlacFile         = errors.New("not a FLAC stream")
	ErrInvalidStreamInfo   = errors.New("invalid FLAC stream info")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)
