// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Position is where a byte offset lies relative to a Window.
type Position int

const (
	Before Position = iota - 1 // already evicted
	In
	After // not decoded yet
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case In:
		return "in"
	}

	return "after"
}

// Window is a fixed-capacity FIFO of decoded bytes addressed by absolute
// sample-byte offsets. It holds exactly the bytes [Start(), End()).
// Start never decreases.
type Window struct {
	data []byte
	n    int
	pos  uint64
}

// NewWindow allocates a window holding at most capacity bytes.
func NewWindow(capacity int) (*Window, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidCapacity, capacity)
	}

	return &Window{data: make([]byte, capacity)}, nil
}

func (w *Window) Cap() int      { return len(w.data) }
func (w *Window) Len() int      { return w.n }
func (w *Window) Start() uint64 { return w.pos }
func (w *Window) End() uint64   { return w.pos + uint64(w.n) }

// Append adds frame at the tail. When it does not fit, as many bytes as the
// frame holds are evicted from the front first. It returns the number of
// evicted bytes.
func (w *Window) Append(frame []byte) (int, error) {
	if len(frame) > len(w.data) {
		return 0, fmt.Errorf("%w: %d bytes, capacity %d", ErrFrameTooLarge, len(frame), len(w.data))
	}

	evicted := 0
	if w.n+len(frame) > len(w.data) {
		evicted = min(len(frame), w.n)
		copy(w.data, w.data[evicted:w.n])
		w.n -= evicted
		w.pos += uint64(evicted)
	}

	copy(w.data[w.n:], frame)
	w.n += len(frame)

	return evicted, nil
}

// Classify locates the byte at offset off.
func (w *Window) Classify(off uint64) Position {
	switch {
	case off < w.pos:
		return Before
	case off < w.End():
		return In
	}

	return After
}

// AppendTo appends the n bytes starting at offset off to dst.
// The range must be resident; a zero-length read is always valid.
func (w *Window) AppendTo(dst []byte, off uint64, n int) ([]byte, error) {
	if n == 0 {
		return dst, nil
	}
	if n < 0 || off < w.pos || off+uint64(n) > w.End() {
		return dst, fmt.Errorf("range [%d, %d) outside window [%d, %d)",
			off, off+uint64(max(n, 0)), w.pos, w.End())
	}

	start := int(off - w.pos)

	return append(dst, w.data[start:start+n]...), nil
}

// CopyOut returns a fresh copy of the n bytes starting at off.
func (w *Window) CopyOut(off uint64, n int) ([]byte, error) {
	return w.AppendTo(make([]byte, 0, max(n, 0)), off, n)
}

// Release drops the backing storage. The window is empty afterwards.
func (w *Window) Release() {
	w.pos += uint64(w.n)
	w.data = nil
	w.n = 0
}
