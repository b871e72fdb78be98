// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_InvalidCapacity(t *testing.T) {
	t.Parallel()

	for _, c := range []int{0, -1} {
		_, err := NewWindow(c)
		require.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestWindow_AppendWithinCapacity(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(10)
	require.NoError(t, err)

	evicted, err := w.Append([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, evicted)

	evicted, err = w.Append([]byte{4, 5, 6, 7})
	require.NoError(t, err)
	assert.Zero(t, evicted)

	assert.Equal(t, 7, w.Len())
	assert.Equal(t, uint64(0), w.Start())
	assert.Equal(t, uint64(7), w.End())

	got, err := w.CopyOut(0, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, got)
}

func TestWindow_EvictsFrameSized(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(10)
	require.NoError(t, err)

	_, err = w.Append([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	// 8 + 4 > 10: four bytes leave the front.
	evicted, err := w.Append([]byte{8, 9, 10, 11})
	require.NoError(t, err)
	assert.Equal(t, 4, evicted)
	assert.Equal(t, uint64(4), w.Start())
	assert.Equal(t, uint64(12), w.End())
	assert.Equal(t, 8, w.Len())

	got, err := w.CopyOut(4, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6, 7, 8, 9, 10, 11}, got)
}

func TestWindow_EvictionNeverExceedsHeldBytes(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(10)
	require.NoError(t, err)

	_, err = w.Append([]byte{1, 2})
	require.NoError(t, err)

	evicted, err := w.Append(bytes.Repeat([]byte{9}, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, uint64(2), w.Start())
	assert.Equal(t, 10, w.Len())
}

func TestWindow_FrameTooLarge(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(4)
	require.NoError(t, err)

	_, err = w.Append(make([]byte, 5))
	require.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Zero(t, w.Len())
}

func TestWindow_Classify(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(4)
	require.NoError(t, err)
	_, err = w.Append([]byte{0, 1, 2, 3})
	require.NoError(t, err)
	_, err = w.Append([]byte{4, 5})
	require.NoError(t, err)

	// window is now [2, 6)
	tests := []struct {
		off  uint64
		want Position
	}{
		{0, Before},
		{1, Before},
		{2, In},
		{5, In},
		{6, After},
		{100, After},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, w.Classify(tt.off), "offset %d", tt.off)
		})
	}
}

func TestWindow_AppendToBounds(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(8)
	require.NoError(t, err)
	_, err = w.Append([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	got, err := w.AppendTo([]byte{0xff}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 2, 3}, got)

	got, err = w.AppendTo(nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = w.AppendTo(nil, 3, 2)
	require.Error(t, err)
	_, err = w.AppendTo(nil, 0, -1)
	require.Error(t, err)
}

func TestWindow_CopyOutDoesNotAlias(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(4)
	require.NoError(t, err)
	_, err = w.Append([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	got, err := w.CopyOut(0, 4)
	require.NoError(t, err)
	got[0] = 42

	again, err := w.CopyOut(0, 4)
	require.NoError(t, err)
	assert.Equal(t, byte(1), again[0])
}

func TestWindow_Release(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(4)
	require.NoError(t, err)
	_, err = w.Append([]byte{1, 2, 3})
	require.NoError(t, err)

	w.Release()
	assert.Zero(t, w.Cap())
	assert.Zero(t, w.Len())
	assert.Equal(t, uint64(3), w.Start())

	_, err = w.Append([]byte{1})
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}

func BenchmarkWindow_Append(b *testing.B) {
	w, err := NewWindow(DefaultCapacity)
	if err != nil {
		b.Fatal(err)
	}
	frame := make([]byte, 4608)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := w.Append(frame); err != nil {
			b.Fatal(err)
		}
	}
}
