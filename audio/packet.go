// SPDX-License-Identifier: EPL-2.0

package audio

// Packet is the result of a range read. Data is owned by the caller and
// never shares memory with the decode window.
type Packet struct {
	// FirstSample is the index of the first sample held in Data.
	FirstSample uint64
	Data        []byte
	// EOF is set when the stream ended before the requested range did.
	// Data then holds exactly the bytes that were available.
	EOF bool
}

// Size is the number of bytes in the packet.
func (p *Packet) Size() int { return len(p.Data) }

// Samples is the number of whole samples in the packet.
func (p *Packet) Samples(sampleSize int) int {
	if sampleSize <= 0 {
		return 0
	}

	return len(p.Data) / sampleSize
}

// Release drops the packet's buffer.
func (p *Packet) Release() {
	p.Data = nil
}
