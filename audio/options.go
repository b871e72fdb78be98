// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/pion/logging"
)

// DefaultCapacity is the decode window size used when none is given,
// twice the largest frame a lavc audio decoder may return.
const DefaultCapacity = 2 * 192000

// LoggerScope is the scope name sources log under.
const LoggerScope = "audsrc"

// Option configures a Source.
type Option func(*config)

type config struct {
	capacity      int
	surplus       int
	maxCorruptRun int
	warnEvery     int

	log     logging.LeveledLogger
	factory logging.LoggerFactory
}

// WithCapacity sets the decode window size in bytes. The value is not
// adjusted: a window too small for the frame margin fails NewSource.
func WithCapacity(bytes int) Option {
	return func(c *config) { c.capacity = bytes }
}

// WithSurplus overrides the margin kept free around split reads.
func WithSurplus(bytes int) Option {
	return func(c *config) { c.surplus = bytes }
}

// WithMaxCorruptRun sets how many corrupt units in a row end the stream.
// Zero, the default, skips any number of them.
func WithMaxCorruptRun(n int) Option {
	return func(c *config) { c.maxCorruptRun = n }
}

// WithWarnEvery sets how often the desync warning repeats.
func WithWarnEvery(n int) Option {
	return func(c *config) { c.warnEvery = n }
}

// WithLogger sets the logger directly. It takes precedence over
// WithLoggerFactory.
func WithLogger(l logging.LeveledLogger) Option {
	return func(c *config) { c.log = l }
}

func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(c *config) { c.factory = f }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	if c.maxCorruptRun < 0 {
		c.maxCorruptRun = DefaultMaxCorruptRun
	}
	if c.warnEvery <= 0 {
		c.warnEvery = DefaultWarnEvery
	}
	if c.log == nil {
		if c.factory == nil {
			c.factory = logging.NewDefaultLoggerFactory()
		}
		c.log = c.factory.NewLogger(LoggerScope)
	}

	return c
}

// window returns the surplus and capacity for a stream.
func (c config) window(info StreamInfo) (surplus, capacity int, err error) {
	surplus = c.surplus
	if surplus <= 0 {
		surplus = info.FrameSize * 3 / 2
	}

	fits := func(capacity int) bool {
		return capacity > 2*surplus && capacity-2*surplus >= info.SampleSize
	}

	if c.capacity > 0 {
		if !fits(c.capacity) {
			return 0, 0, fmt.Errorf("%w: capacity %d, surplus %d, sample size %d",
				ErrInvalidCapacity, c.capacity, surplus, info.SampleSize)
		}
		return surplus, c.capacity, nil
	}

	capacity = DefaultCapacity
	if !fits(capacity) {
		capacity = roundUp(max(4*surplus, 2*surplus+info.SampleSize+1), info.SampleSize)
	}

	return surplus, capacity, nil
}

func roundUp(n, to int) int {
	if to <= 0 {
		return n
	}

	return (n + to - 1) / to * to
}
