// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/ogg"
)

func selectStream(streams []ogg.Stream, track audio.Track) (ogg.Stream, error) {
	if track == audio.TrackAny {
		for _, s := range streams {
			if isOpus(s.Header) {
				return s, nil
			}
		}
		return ogg.Stream{}, fmt.Errorf("%w: none of %d logical streams is Opus",
			audio.ErrUnsupportedTrack, len(streams))
	}

	if track < 0 || int(track) >= len(streams) {
		return ogg.Stream{}, fmt.Errorf("%w: track %d of %d logical streams",
			audio.ErrUnsupportedTrack, int(track), len(streams))
	}

	s := streams[track]
	if !isOpus(s.Header) {
		return ogg.Stream{}, fmt.Errorf("%w: track %d is not Opus", audio.ErrUnsupportedTrack, int(track))
	}

	return s, nil
}
