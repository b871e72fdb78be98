// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ik5/audsrc"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/cli"
)

type InfoCmd struct {
	Input string `arg:"" help:"Audio file, or - for stdin."`
}

func (c *InfoCmd) Run(g *Globals) error {
	src, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	printInfo(c.Input, src)

	return nil
}

func printInfo(name string, src *audio.Source) {
	info := src.Info()

	cli.PrintSection(name)
	cli.PrintInfo("Codec", info.Codec)
	cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", info.SampleRate))
	cli.PrintInfo("Channels", strconv.Itoa(info.Channels))
	cli.PrintInfo("Sample format", info.Format.String())
	cli.PrintInfo("Frame", fmt.Sprintf("%d samples, %s", info.FrameLen, cli.FormatBytes(int64(info.FrameSize))))
	if info.NumSamples > 0 {
		cli.PrintInfo("Length", fmt.Sprintf("%d samples, %s", info.NumSamples, cli.FormatDuration(duration(info, uint64(info.NumSamples)))))
	} else {
		cli.PrintInfo("Length", "unknown")
	}
	cli.PrintInfo("Window", fmt.Sprintf("%s, surplus %s", cli.FormatBytes(int64(src.Capacity())), cli.FormatBytes(int64(src.Surplus()))))
}

// duration is the playing time of samples samples.
func duration(info audio.StreamInfo, samples uint64) time.Duration {
	if info.SampleRate <= 0 {
		return 0
	}

	return time.Duration(samples) * time.Second / time.Duration(info.SampleRate)
}

type FormatsCmd struct{}

func (c *FormatsCmd) Run(*Globals) error {
	registry := audsrc.DefaultRegistry()

	cli.PrintSection("Formats")
	for _, name := range registry.Formats() {
		cli.PrintInfo(name, registry.Describe(name))
	}

	return nil
}
