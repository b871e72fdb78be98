// SPDX-License-Identifier: EPL-2.0

package opus

import "errors"

var (
	ErrMissingHeaders    = errors.New("opus header packets missing")
	ErrInvalidHeader     = errors.New("invalid opus header")
	ErrUnsupportedLayout = errors.New("unsupported opus channel layout")
)
