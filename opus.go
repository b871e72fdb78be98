// SPDX-License-Identifier: EPL-2.0

//go:build opus

package audsrc

import (
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/formats/opus"
)

func registerOpus(r *audio.Registry) {
	r.RegisterWithDescription("opus", "Ogg Opus", opus.Decoder{})
}
