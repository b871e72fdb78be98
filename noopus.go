// SPDX-License-Identifier: EPL-2.0

//go:build !opus

package audsrc

import "github.com/ik5/audsrc/audio"

// Opus needs cgo and libopus; build with -tags opus to register it.
func registerOpus(*audio.Registry) {}
