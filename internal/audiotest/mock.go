// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds decoders and loggers shared by the tests of the
// other packages.
package audiotest

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/pion/logging"

	"github.com/ik5/audsrc/audio"
)

// PatternInfo describes a mono stream whose frames are frameBytes long.
// frameBytes must be a multiple of sampleSize.
func PatternInfo(sampleSize, frameBytes int) audio.StreamInfo {
	return audio.StreamInfo{
		Codec:      "pattern",
		SampleRate: 8000,
		Channels:   1,
		Format:     audio.FormatUnknown,
		ChanSize:   sampleSize,
		SampleSize: sampleSize,
		FrameLen:   frameBytes / sampleSize,
		FrameSize:  frameBytes,
		TimeBase:   audio.TimeBase{Num: 1, Den: 8000},
	}
}

// PatternBytes is the byte stream produced by frames pattern frames of
// frameBytes each: frame k is the byte k%256 repeated.
func PatternBytes(frames, frameBytes int) []byte {
	out := make([]byte, 0, frames*frameBytes)
	for k := range frames {
		out = append(out, bytes.Repeat([]byte{byte(k % 256)}, frameBytes)...)
	}

	return out
}

// PatternDecoder is a FrameDecoder emitting Frames pattern frames, then
// io.EOF. A negative Frames means an endless stream.
type PatternDecoder struct {
	StreamInfo audio.StreamInfo
	Frames     int

	// Corrupt lists the calls (0-based) that report a corrupt unit
	// instead of a frame. A corrupt call does not consume a frame.
	Corrupt map[int]bool
	// FailAt is the frame index at which FailErr is returned for good.
	// Negative disables it.
	FailAt  int
	FailErr error

	Calls  int
	Closed bool

	next int
	buf  []byte
}

// NewPatternDecoder returns a decoder of frames frames of frameBytes bytes.
func NewPatternDecoder(sampleSize, frameBytes, frames int) *PatternDecoder {
	return &PatternDecoder{
		StreamInfo: PatternInfo(sampleSize, frameBytes),
		Frames:     frames,
		FailAt:     -1,
		FailErr:    io.ErrClosedPipe,
	}
}

func (d *PatternDecoder) Info() audio.StreamInfo { return d.StreamInfo }

func (d *PatternDecoder) NextFrame() ([]byte, error) {
	call := d.Calls
	d.Calls++

	if d.Corrupt[call] {
		return nil, fmt.Errorf("%w: call %d", audio.ErrCorruptFrame, call)
	}
	if d.FailAt >= 0 && d.next >= d.FailAt {
		return nil, d.FailErr
	}
	if d.Frames >= 0 && d.next >= d.Frames {
		return nil, io.EOF
	}

	if d.buf == nil {
		d.buf = make([]byte, d.StreamInfo.FrameSize)
	}
	for i := range d.buf {
		d.buf[i] = byte(d.next % 256)
	}
	d.next++

	return d.buf, nil
}

// Emitted is the number of frames handed out so far.
func (d *PatternDecoder) Emitted() int { return d.next }

func (d *PatternDecoder) Close() error {
	d.Closed = true
	return nil
}

// Sine returns n samples of a full-scale sine wave of freq Hz at rate Hz,
// scaled to the given amplitude.
func Sine(n int, freq float64, rate int, amplitude float64) []int {
	out := make([]int, n)
	for i := range out {
		t := float64(i) / float64(rate)
		out[i] = int(math.Round(amplitude * math.Sin(2*math.Pi*freq*t)))
	}

	return out
}

// LogEntry is one message captured by a RecordingLogger.
type LogEntry struct {
	Level logging.LogLevel
	Msg   string
}

// RecordingLogger is a logging.LeveledLogger that keeps every message.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Factory returns a LoggerFactory handing out l for every scope.
func (l *RecordingLogger) Factory() logging.LoggerFactory {
	return recordingFactory{l}
}

type recordingFactory struct{ l *RecordingLogger }

func (f recordingFactory) NewLogger(string) logging.LeveledLogger { return f.l }

func (l *RecordingLogger) record(level logging.LogLevel, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg})
}

// Entries returns the messages logged at level.
func (l *RecordingLogger) Entries(level logging.LogLevel) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}

	return out
}

func (l *RecordingLogger) Trace(msg string) { l.record(logging.LogLevelTrace, msg) }
func (l *RecordingLogger) Tracef(format string, args ...any) {
	l.record(logging.LogLevelTrace, fmt.Sprintf(format, args...))
}
func (l *RecordingLogger) Debug(msg string) { l.record(logging.LogLevelDebug, msg) }
func (l *RecordingLogger) Debugf(format string, args ...any) {
	l.record(logging.LogLevelDebug, fmt.Sprintf(format, args...))
}
func (l *RecordingLogger) Info(msg string) { l.record(logging.LogLevelInfo, msg) }
func (l *RecordingLogger) Infof(format string, args ...any) {
	l.record(logging.LogLevelInfo, fmt.Sprintf(format, args...))
}
func (l *RecordingLogger) Warn(msg string) { l.record(logging.LogLevelWarn, msg) }
func (l *RecordingLogger) Warnf(format string, args ...any) {
	l.record(logging.LogLevelWarn, fmt.Sprintf(format, args...))
}
func (l *RecordingLogger) Error(msg string) { l.record(logging.LogLevelError, msg) }
func (l *RecordingLogger) Errorf(format string, args ...any) {
	l.record(logging.LogLevelError, fmt.Sprintf(format, args...))
}
