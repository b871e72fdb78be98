package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// AppendInt16LE converts samples to 16-bit PCM and appends them to dst as
// little-endian bytes.
func AppendInt16LE(dst []byte, samples []float32) []byte {
	off := len(dst)
	dst = grow(dst, len(samples)*2)
	for _, s := range samples {
		v := uint16(Float32ToInt16(s))
		dst[off] = byte(v)
		dst[off+1] = byte(v >> 8)
		off += 2
	}

	return dst
}
