// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/cli"
)

type PlayCmd struct {
	Input string `arg:"" help:"Audio file, or - for stdin."`

	First  uint64 `help:"Sample to start playing from." default:"0"`
	Period int    `help:"Device period in milliseconds." default:"20"`
}

func (c *PlayCmd) Run(g *Globals) error {
	src, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	info := src.Info()
	format, err := deviceFormat(info.Format)
	if err != nil {
		return err
	}

	printInfo(c.Input, src)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	// Half a second of audio queued ahead of the device.
	chunk := max(info.SampleRate*c.Period/1000, 1)
	pcm := make(chan []byte, max(500/max(c.Period, 1), 2))
	p := newPlayer(pcm, silenceOf(info.Format))

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = format
	cfg.Playback.Channels = uint32(info.Channels)
	cfg.SampleRate = uint32(info.SampleRate)
	cfg.PeriodSizeInMilliseconds = uint32(c.Period)

	device, err := malgo.InitDevice(mctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, _ uint32) {
			p.fill(output)
		},
	})
	if err != nil {
		return fmt.Errorf("playback device: %w", err)
	}
	defer device.Uninit()

	produced := make(chan error, 1)
	go func() {
		produced <- produce(ctx, src, c.First, chunk, pcm)
	}()

	if err := device.Start(); err != nil {
		_ = halt(stop, pcm, produced)
		return fmt.Errorf("start playback: %w", err)
	}

	start := time.Now()
	select {
	case <-p.done:
	case <-ctx.Done():
	}
	_ = device.Stop()

	if err := <-produced; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	cli.PrintSuccess(fmt.Sprintf("Played %s", cli.FormatDuration(time.Since(start))))
	if underruns := p.Underruns(); underruns > 0 {
		cli.PrintWarning(fmt.Sprintf("%d buffer underruns", underruns))
	}

	return nil
}

// deviceFormat maps a decoded sample format to the device format.
func deviceFormat(f audio.SampleFormat) (malgo.FormatType, error) {
	switch f {
	case audio.FormatU8:
		return malgo.FormatU8, nil
	case audio.FormatS16:
		return malgo.FormatS16, nil
	case audio.FormatS24:
		return malgo.FormatS24, nil
	case audio.FormatS32:
		return malgo.FormatS32, nil
	case audio.FormatF32:
		return malgo.FormatF32, nil
	}

	return malgo.FormatUnknown, fmt.Errorf("cannot play %s samples", f)
}

func silenceOf(f audio.SampleFormat) byte {
	if f == audio.FormatU8 {
		return 0x80
	}

	return 0
}

// produce reads the stream from first onwards, chunk samples at a time,
// and queues the bytes on out. out is closed when it returns.
func produce(ctx context.Context, src *audio.Source, first uint64, chunk int, out chan<- []byte) error {
	defer close(out)

	for pos := first; ; pos += uint64(chunk) {
		pkt, err := src.GetSamples(pos, pos+uint64(chunk))
		if err != nil {
			return err
		}

		if len(pkt.Data) > 0 {
			select {
			case out <- pkt.Data:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if pkt.EOF {
			return nil
		}
	}
}

// halt cancels the producer and waits until it has let go of the source.
// Queued chunks are discarded.
func halt(stop context.CancelFunc, in <-chan []byte, produced <-chan error) error {
	stop()
	for range in {
	}

	return <-produced
}

// player feeds the device callback from a channel of PCM chunks. The
// callback never blocks: when no audio is queued it plays silence.
type player struct {
	in      <-chan []byte
	silence byte
	pending []byte

	done     chan struct{}
	doneOnce sync.Once

	mu        sync.Mutex
	underruns int
}

func newPlayer(in <-chan []byte, silence byte) *player {
	return &player{in: in, silence: silence, done: make(chan struct{})}
}

func (p *player) fill(out []byte) {
	n := 0
	for n < len(out) {
		if len(p.pending) == 0 {
			select {
			case data, ok := <-p.in:
				if !ok {
					p.pad(out[n:])
					p.doneOnce.Do(func() { close(p.done) })
					return
				}
				p.pending = data
				continue
			default:
				p.mu.Lock()
				p.underruns++
				p.mu.Unlock()
				p.pad(out[n:])
				return
			}
		}

		c := copy(out[n:], p.pending)
		p.pending = p.pending[c:]
		n += c
	}
}

func (p *player) pad(out []byte) {
	for i := range out {
		out[i] = p.silence
	}
}

// Underruns is the number of callbacks that ran out of queued audio.
func (p *player) Underruns() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.underruns
}
