// SPDX-License-Identifier: EPL-2.0

// Command audsrc inspects, extracts and plays audio through the audsrc
// decode window.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pion/logging"

	"github.com/ik5/audsrc"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/cli"
)

var version = "dev"

const description = "Decode WAV, AIFF, MP3, FLAC, Vorbis and Opus through a bounded sliding window."

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel string           `help:"Log level." enum:"disabled,error,warn,info,debug,trace" default:"warn"`
	Capacity int              `help:"Decode window size in bytes, 0 for the default." default:"0"`
	Format   string           `help:"Input format. Taken from the extension, or detected on stdin, when empty." short:"f"`
	Track    string           `help:"Stream to decode: an index or 'any'." default:"any" short:"t"`
	Version  kong.VersionFlag `help:"Show version information."`
}

var CLI struct {
	Globals

	Info    InfoCmd    `cmd:"" help:"Print stream information."`
	Extract ExtractCmd `cmd:"" help:"Write a sample range to a WAV file."`
	Play    PlayCmd    `cmd:"" help:"Play a file on the default output device."`
	Formats FormatsCmd `cmd:"" help:"List the supported formats."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("audsrc"),
		kong.Description(description),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter("audsrc "+version, description)),
	)

	if err := ctx.Run(&CLI.Globals); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// logLevel maps a --log-level value to a pion log level.
func logLevel(name string) (logging.LogLevel, error) {
	switch strings.ToLower(name) {
	case "disabled":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "":
		return logging.LogLevelWarn, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}

	return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", name)
}

// options builds the Source options selected by the global flags.
func (g *Globals) options() ([]audio.Option, error) {
	level, err := logLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}

	factory := logging.NewDefaultLoggerFactory()
	factory.DefaultLogLevel = level

	opts := []audio.Option{audio.WithLoggerFactory(factory)}
	if g.Capacity > 0 {
		opts = append(opts, audio.WithCapacity(g.Capacity))
	}

	return opts, nil
}

// open opens input with the global format, track and window settings.
func (g *Globals) open(input string) (*audio.Source, error) {
	track, err := audsrc.ParseTrack(g.Track)
	if err != nil {
		return nil, err
	}

	opts, err := g.options()
	if err != nil {
		return nil, err
	}

	return audsrc.OpenFormat(input, g.Format, track, opts...)
}
