// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ik5/audsrc"
	"github.com/ik5/audsrc/formats/wav"
	"github.com/ik5/audsrc/internal/cli"
)

type ExtractCmd struct {
	Input  string `arg:"" help:"Audio file, or - for stdin."`
	Output string `arg:"" help:"WAV file to write." type:"path"`

	First uint64 `help:"First sample to write." default:"0"`
	Last  uint64 `help:"Sample to stop before, 0 for the end of the stream." default:"0"`
	Chunk int    `help:"Samples per read." default:"4096"`
}

func (c *ExtractCmd) Run(g *Globals) (err error) {
	if c.Last != 0 && c.Last <= c.First {
		return fmt.Errorf("--last %d is not after --first %d", c.Last, c.First)
	}

	src, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	w, err := wav.NewWriter(out, src.Info())
	if err != nil {
		return err
	}

	start := time.Now()
	samples, err := audsrc.Copy(w, src, c.First, c.Last, c.Chunk)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalise %s: %w", c.Output, err)
	}
	elapsed := time.Since(start)

	info := src.Info()
	played := duration(info, samples)

	summary := cli.Summary{Title: "✓ Extracted " + c.Output}
	summary.Add("Samples", fmt.Sprintf("%d from %d", samples, c.First))
	summary.Add("Duration", cli.FormatDuration(played))
	summary.Add("Size", cli.FormatBytes(int64(w.Written())))
	summary.Add("Time", cli.FormatDuration(elapsed))
	if elapsed > 0 {
		summary.Add("Speed", cli.FormatSpeed(played.Seconds()/elapsed.Seconds()))
	}
	if n := src.Corrupted(); n > 0 {
		summary.Add("Skipped", fmt.Sprintf("%d corrupt units", n))
	}
	summary.Print()

	return nil
}
