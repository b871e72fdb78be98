// SPDX-License-Identifier: EPL-2.0

package ogg

// Ogg uses the non-reflected CRC-32 with polynomial 0x04c11db7, zero initial
// value and no final xor.
var crcTable = func() (t [256]uint32) {
	for i := range t {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}

	return t
}()

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}

	return crc
}

// checksum computes the CRC of a page whose checksum field is zero.
func checksum(page []byte) uint32 {
	return crcUpdate(0, page)
}

// checksumZeroed computes the CRC of a page as if its checksum field were
// zero, without modifying it.
func checksumZeroed(page []byte) uint32 {
	crc := crcUpdate(0, page[:22])
	crc = crcUpdate(crc, []byte{0, 0, 0, 0})

	return crcUpdate(crc, page[26:])
}
