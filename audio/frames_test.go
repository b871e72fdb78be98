// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of NextFrame outcomes.
type scripted struct {
	steps []step
	calls int
}

type step struct {
	frame []byte
	err   error
}

func (s *scripted) Info() StreamInfo { return NewStreamInfo("scripted", 8000, 1, FormatU8, 4) }
func (s *scripted) Close() error     { return nil }

func (s *scripted) NextFrame() ([]byte, error) {
	if s.calls >= len(s.steps) {
		return nil, io.EOF
	}
	st := s.steps[s.calls]
	s.calls++

	return st.frame, st.err
}

func corrupt(i int) step {
	return step{err: fmt.Errorf("%w: unit %d", ErrCorruptFrame, i)}
}

func quietLogger() logging.LeveledLogger {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = logging.LogLevelDisabled

	return f.NewLogger("test")
}

func TestWarnLimiter(t *testing.T) {
	t.Parallel()

	l := NewWarnLimiter(3)
	var got []bool
	for range 7 {
		got = append(got, l.Allow())
	}

	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)
	assert.Equal(t, 7, l.Count())
}

func TestWarnLimiter_NonPositive(t *testing.T) {
	t.Parallel()

	l := NewWarnLimiter(0)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
}

func TestFrameReader_SkipsCorruptAndEmpty(t *testing.T) {
	t.Parallel()

	dec := &scripted{steps: []step{
		{frame: []byte{1, 2, 3, 4}},
		corrupt(0),
		{frame: []byte{}},
		corrupt(1),
		{frame: []byte{5, 6, 7, 8}},
	}}
	fr := newFrameReader(dec, quietLogger(), DefaultWarnEvery, DefaultMaxCorruptRun)

	f, err := fr.next()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, f)

	f, err = fr.next()
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 7, 8}, f)
	assert.Equal(t, 2, fr.corrupted())

	_, err = fr.next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameReader_CorruptRunIsFatal(t *testing.T) {
	t.Parallel()

	steps := make([]step, 0, 5)
	for i := range 5 {
		steps = append(steps, corrupt(i))
	}
	fr := newFrameReader(&scripted{steps: steps}, quietLogger(), DefaultWarnEvery, 3)

	_, err := fr.next()
	require.ErrorIs(t, err, ErrDecodeFailure)
	assert.ErrorIs(t, err, ErrCorruptFrame)
}

func TestFrameReader_NoRunLimitByDefault(t *testing.T) {
	t.Parallel()

	steps := make([]step, 0, 301)
	for i := range 300 {
		steps = append(steps, corrupt(i))
	}
	steps = append(steps, step{frame: []byte{9}})
	fr := newFrameReader(&scripted{steps: steps}, quietLogger(), DefaultWarnEvery, DefaultMaxCorruptRun)

	f, err := fr.next()
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, f)
	assert.Equal(t, 300, fr.corrupted())
}

func TestFrameReader_RunResetsAfterFrame(t *testing.T) {
	t.Parallel()

	dec := &scripted{steps: []step{
		corrupt(0), corrupt(1),
		{frame: []byte{1}},
		corrupt(2), corrupt(3),
		{frame: []byte{2}},
	}}
	fr := newFrameReader(dec, quietLogger(), DefaultWarnEvery, 3)

	for _, want := range []byte{1, 2} {
		f, err := fr.next()
		require.NoError(t, err)
		assert.Equal(t, []byte{want}, f)
	}
}

func TestFrameReader_FatalPassesThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("demux failure")
	fr := newFrameReader(&scripted{steps: []step{{err: boom}}}, quietLogger(), DefaultWarnEvery, DefaultMaxCorruptRun)

	_, err := fr.next()
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCorruptFrame)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestClassifyDecodeError(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("disk on fire")
	broken := NewReaderGuard(failingReader{err: ioErr})
	_, _ = broken.Read(make([]byte, 1))

	healthy := NewReaderGuard(failingReader{err: io.EOF})
	_, _ = healthy.Read(make([]byte, 1))

	tests := []struct {
		name    string
		err     error
		guard   *ReaderGuard
		is      error
		corrupt bool
	}{
		{"eof", io.EOF, healthy, io.EOF, false},
		{"wrapped eof", fmt.Errorf("frame: %w", io.EOF), nil, io.EOF, false},
		{"garbage", errors.New("bad sync word"), healthy, ErrCorruptFrame, true},
		{"unexpected eof", io.ErrUnexpectedEOF, nil, ErrCorruptFrame, true},
		{"already corrupt", fmt.Errorf("x: %w", ErrCorruptFrame), nil, ErrCorruptFrame, true},
		{"io failure wins", errors.New("bad sync word"), broken, ioErr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ClassifyDecodeError(tt.err, tt.guard)
			require.ErrorIs(t, got, tt.is)
			assert.Equal(t, tt.corrupt, errors.Is(got, ErrCorruptFrame))
		})
	}

	assert.NoError(t, ClassifyDecodeError(nil, broken))
}

func TestReaderGuard_KeepsFirstError(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	g := NewReaderGuard(failingReader{err: first})
	_, _ = g.Read(nil)
	g.r = failingReader{err: errors.New("second")}
	_, _ = g.Read(nil)

	assert.Equal(t, first, g.Err())
}

func TestReaderGuard_Offset(t *testing.T) {
	t.Parallel()

	g := NewReaderGuard(bytes.NewReader(make([]byte, 10)))
	_, _ = g.Read(make([]byte, 4))
	_, _ = g.Read(make([]byte, 100))
	_, _ = g.Read(make([]byte, 100))

	assert.Equal(t, int64(10), g.Offset())
	assert.NoError(t, g.Err())
}

func TestStallDetector(t *testing.T) {
	t.Parallel()

	bad := fmt.Errorf("%w: lost sync", ErrCorruptFrame)
	g := NewReaderGuard(bytes.NewReader(make([]byte, 100)))
	d := NewStallDetector(g, 3)

	// corrupt units that consume input are never a stall
	for range 10 {
		_, _ = g.Read(make([]byte, 1))
		require.ErrorIs(t, d.Check(bad), ErrCorruptFrame)
	}

	assert.ErrorIs(t, d.Check(bad), ErrCorruptFrame)
	assert.ErrorIs(t, d.Check(bad), ErrCorruptFrame)

	err := d.Check(bad)
	require.ErrorIs(t, err, ErrDecodeFailure)
	assert.NotErrorIs(t, err, ErrCorruptFrame)
}

func TestStallDetector_ResetByFrame(t *testing.T) {
	t.Parallel()

	bad := fmt.Errorf("%w: lost sync", ErrCorruptFrame)
	d := NewStallDetector(NewReaderGuard(bytes.NewReader(nil)), 2)

	require.ErrorIs(t, d.Check(bad), ErrCorruptFrame)
	require.NoError(t, d.Check(nil))
	require.ErrorIs(t, d.Check(bad), ErrCorruptFrame)
	assert.ErrorIs(t, d.Check(bad), ErrDecodeFailure)
}

func TestStallDetector_NilGuard(t *testing.T) {
	t.Parallel()

	bad := fmt.Errorf("%w: lost sync", ErrCorruptFrame)
	d := NewStallDetector(nil, 1)
	for range 5 {
		assert.ErrorIs(t, d.Check(bad), ErrCorruptFrame)
	}
}

func TestCursor(t *testing.T) {
	t.Parallel()

	var c Cursor
	c.Load([]byte{1, 2, 3, 4, 5})

	assert.Equal(t, []byte{1, 2}, c.Take(2))
	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, []byte{3, 4, 5}, c.Take(10))
	assert.Zero(t, c.Remaining())
	assert.Empty(t, c.Take(1))

	buf := c.Buffer(8)
	assert.GreaterOrEqual(t, cap(buf), 8)
	buf = append(buf, 9, 9)
	c.Load(buf)
	assert.Equal(t, []byte{9, 9}, c.Take(4))
}
