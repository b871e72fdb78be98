// SPDX-License-Identifier: EPL-2.0

package audsrc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/audsrc/audio"
)

// DefaultChunk is the number of samples Copy requests at a time.
const DefaultChunk = 4096

// Copy writes the decoded bytes of the samples [first, last) to w, chunk
// samples at a time. A zero last copies to the end of the stream. It
// returns the number of samples written.
func Copy(w io.Writer, src *audio.Source, first, last uint64, chunk int) (uint64, error) {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	if last != 0 && last <= first {
		return 0, fmt.Errorf("%w: [%d, %d)", audio.ErrInvalidRange, first, last)
	}

	ss := uint64(src.Info().SampleSize)
	var written uint64
	for pos := first; last == 0 || pos < last; {
		end := pos + uint64(chunk)
		if last != 0 {
			end = min(end, last)
		}

		pkt, err := src.GetSamples(pos, end)
		if err != nil {
			return written, err
		}

		n, err := w.Write(pkt.Data)
		written += uint64(n) / ss
		if err != nil {
			return written, err
		}

		if pkt.EOF {
			break
		}
		pos = end
	}

	return written, nil
}

// ReadAll decodes a whole stream, chunk samples at a time. src must not
// have been read from yet.
func ReadAll(src *audio.Source, chunk int) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Copy(&buf, src, 0, 0, chunk); err != nil {
		return buf.Bytes(), err
	}

	return buf.Bytes(), nil
}
