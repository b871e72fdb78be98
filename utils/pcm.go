// SPDX-License-Identifier: EPL-2.0

package utils

import "fmt"

// Packer stores integer samples as little-endian bytes of a fixed width.
type Packer struct {
	// Width is the number of output bytes per sample.
	Width int
	// Shift moves the significant bits to the top of the container.
	Shift int
	// Bias is added after shifting. 128 turns signed 8-bit into unsigned.
	Bias int32
}

// NewPacker returns a Packer for bits-wide samples. Signed 8-bit input is
// biased into the unsigned range so that every 1-byte output is unsigned.
func NewPacker(bits int, signed bool) (Packer, error) {
	if bits <= 0 || bits > 32 {
		return Packer{}, fmt.Errorf("unsupported bit depth %d", bits)
	}

	width := (bits + 7) / 8
	p := Packer{Width: width, Shift: width*8 - bits}
	if width == 1 && signed {
		p.Bias = 128
	}

	return p, nil
}

// Put writes v into dst[:p.Width].
func (p Packer) Put(dst []byte, v int32) {
	v = v<<p.Shift + p.Bias
	for i := range p.Width {
		dst[i] = byte(v >> (8 * i))
	}
}

// Append packs samples onto the end of dst.
func (p Packer) Append(dst []byte, samples []int) []byte {
	off := len(dst)
	dst = grow(dst, len(samples)*p.Width)
	for _, s := range samples {
		p.Put(dst[off:], int32(s))
		off += p.Width
	}

	return dst
}

func grow(dst []byte, n int) []byte {
	if cap(dst)-len(dst) < n {
		next := make([]byte, len(dst), len(dst)+n)
		copy(next, dst)
		dst = next
	}

	return dst[:len(dst)+n]
}
