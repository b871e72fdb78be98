// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrMissingHeaders = errors.New("vorbis header packets missing")
	ErrInvalidHeader  = errors.New("invalid vorbis header")
)
