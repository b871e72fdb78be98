// SPDX-License-Identifier: EPL-2.0

// Package cli holds the terminal styling shared by the audsrc commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	WaveTeal   = lipgloss.Color("#2AA198")
	WaveCyan   = lipgloss.Color("#5FD7FF")
	WaveAmber  = lipgloss.Color("#FFAF00")
	WaveRed    = lipgloss.Color("#D7005F")
	WaveGreen  = lipgloss.Color("#5FAF00")
	WaveMuted  = lipgloss.Color("#8A8A8A")
	WaveBright = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveTeal)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(WaveMuted).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveAmber).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveGreen)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveRed)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveAmber)

	KeyStyle = lipgloss.NewStyle().
			Foreground(WaveMuted)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveBright)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WaveTeal).
			Padding(0, 1)
)

// Out is where the informational helpers print. Errors always go to
// standard error.
var Out io.Writer = os.Stdout

// PrintError prints an error message to standard error.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

func PrintWarning(message string) {
	fmt.Fprintf(Out, "%s %s\n", WarningStyle.Render("Warning:"), message)
}

func PrintSuccess(message string) {
	fmt.Fprintf(Out, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints a key/value line.
func PrintInfo(key, value string) {
	fmt.Fprintf(Out, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

func PrintSection(title string) {
	fmt.Fprintln(Out, HeaderStyle.Render(title))
}

// Summary renders aligned key/value rows inside a box under a title.
type Summary struct {
	Title string
	rows  [][2]string
}

func (s *Summary) Add(key, value string) {
	s.rows = append(s.rows, [2]string{key, value})
}

func (s *Summary) String() string {
	width := 0
	for _, r := range s.rows {
		width = max(width, len(r[0]))
	}

	var b strings.Builder
	b.WriteString(SuccessStyle.Render(s.Title))
	for _, r := range s.rows {
		b.WriteString("\n")
		b.WriteString(KeyStyle.Render(r[0] + ":" + strings.Repeat(" ", width-len(r[0])+1)))
		b.WriteString(ValueStyle.Render(r[1]))
	}

	return BoxStyle.Render(b.String())
}

func (s *Summary) Print() {
	fmt.Fprintln(Out, s.String())
}

// FormatDuration formats d with a precision suited to its size.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}

	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatBytes formats a byte count with binary prefixes.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed formats a processing rate relative to playback time.
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}
