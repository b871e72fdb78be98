// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/audiotest"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]logging.LogLevel{
		"disabled": logging.LogLevelDisabled,
		"error":    logging.LogLevelError,
		"WARN":     logging.LogLevelWarn,
		"":         logging.LogLevelWarn,
		"info":     logging.LogLevelInfo,
		"debug":    logging.LogLevelDebug,
		"trace":    logging.LogLevelTrace,
	}
	for name, want := range tests {
		got, err := logLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := logLevel("loud")
	assert.Error(t, err)
}

func TestGlobals_Options(t *testing.T) {
	g := Globals{LogLevel: "info", Capacity: 1 << 16}
	opts, err := g.options()
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	g.LogLevel = "nope"
	_, err = g.options()
	assert.Error(t, err)
}

func TestDeviceFormat(t *testing.T) {
	got, err := deviceFormat(audio.FormatS16)
	require.NoError(t, err)
	assert.Equal(t, malgo.FormatS16, got)

	got, err = deviceFormat(audio.FormatS24)
	require.NoError(t, err)
	assert.Equal(t, malgo.FormatS24, got)

	_, err = deviceFormat(audio.FormatUnknown)
	assert.Error(t, err)
}

func newPatternSource(t *testing.T, frames int) *audio.Source {
	t.Helper()

	dec := audiotest.NewPatternDecoder(2, 64, frames)
	src, err := audio.NewSource(dec, audio.WithLogger(&audiotest.RecordingLogger{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	return src
}

func TestProduce(t *testing.T) {
	src := newPatternSource(t, 10)

	out := make(chan []byte, 100)
	require.NoError(t, produce(context.Background(), src, 0, 48, out))

	var got []byte
	for data := range out {
		got = append(got, data...)
	}
	assert.Equal(t, audiotest.PatternBytes(10, 64), got)
}

func TestProduce_Canceled(t *testing.T) {
	src := newPatternSource(t, -1)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte)
	errc := make(chan error, 1)
	go func() { errc <- produce(ctx, src, 0, 32, out) }()

	<-out
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("produce did not stop")
	}
}

func TestHalt(t *testing.T) {
	src := newPatternSource(t, -1)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte, 4)
	produced := make(chan error, 1)
	go func() { produced <- produce(ctx, src, 0, 32, out) }()

	done := make(chan error, 1)
	go func() { done <- halt(cancel, out, produced) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("halt did not return")
	}

	// the producer is gone, so the source is ours again
	_, ok := <-out
	assert.False(t, ok)
	_, err := src.GetSamples(src.WindowEnd()/2, src.WindowEnd()/2+1)
	assert.NoError(t, err)
}

func TestPlayer_Fill(t *testing.T) {
	in := make(chan []byte, 4)
	in <- []byte{1, 2, 3}
	in <- []byte{4, 5}
	p := newPlayer(in, 0)

	out := make([]byte, 4)
	p.fill(out)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)

	// One byte left, then nothing queued.
	p.fill(out)
	assert.Equal(t, []byte{5, 0, 0, 0}, out)
	assert.Equal(t, 1, p.Underruns())

	in <- []byte{6}
	close(in)
	p.fill(out)
	assert.Equal(t, []byte{6, 0, 0, 0}, out)

	select {
	case <-p.done:
	default:
		t.Fatal("player not done after the input closed")
	}
}

func TestPlayer_SilenceU8(t *testing.T) {
	in := make(chan []byte)
	close(in)
	p := newPlayer(in, silenceOf(audio.FormatU8))

	out := make([]byte, 3)
	p.fill(out)
	assert.Equal(t, bytes.Repeat([]byte{0x80}, 3), out)
}
