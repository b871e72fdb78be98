// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WaveTeal)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(WaveCyan).
			Italic(true)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(WaveAmber).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(WaveCyan).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(WaveTeal).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(WaveMuted).
				Italic(true)
)

// StyledHelpPrinter returns a kong help printer using the audsrc palette.
// It describes the selected command, or the application when none is.
func StyledHelpPrinter(title, description string) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		node := ctx.Model.Node
		if sel := ctx.Selected(); sel != nil {
			node = sel
		}

		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(title))
		sb.WriteString("\n")
		desc := description
		if node != ctx.Model.Node && node.Help != "" {
			desc = node.Help
		}
		sb.WriteString(helpDescStyle.Render(desc))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(node.Summary())
		sb.WriteString("\n")

		if cmds := commands(node); len(cmds) > 0 {
			sb.WriteString(helpSectionStyle.Render("Commands:"))
			sb.WriteString("\n")
			writeRows(&sb, cmds, helpArgStyle)
		}

		if args := arguments(node); len(args) > 0 {
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			writeRows(&sb, args, helpArgStyle)
		}

		if flags := flags(node); len(flags) > 0 {
			sb.WriteString(helpSectionStyle.Render("Flags:"))
			sb.WriteString("\n")
			writeRows(&sb, flags, helpFlagStyle)
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())

		return nil
	}
}

type helpRow struct {
	name       string
	help       string
	defaultVal string
}

func writeRows(sb *strings.Builder, rows []helpRow, style lipgloss.Style) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	for _, r := range rows {
		sb.WriteString("  ")
		sb.WriteString(style.Render(r.name))
		if r.help != "" {
			sb.WriteString(strings.Repeat(" ", width-len(r.name)+2))
			sb.WriteString(r.help)
		}
		if r.defaultVal != "" {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(default: " + r.defaultVal + ")"))
		}
		sb.WriteString("\n")
	}
}

func commands(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, child := range node.Children {
		if child.Hidden {
			continue
		}
		rows = append(rows, helpRow{name: child.Name, help: child.Help})
	}

	return rows
}

func arguments(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, arg := range node.Positional {
		rows = append(rows, helpRow{name: arg.Summary(), help: arg.Help})
	}

	return rows
}

func flags(node *kong.Node) []helpRow {
	rows := []helpRow{{name: "-h, --help", help: "Show context-sensitive help."}}

	for _, group := range node.AllFlags(true) {
		for _, f := range group {
			if f.Name == "help" {
				continue
			}

			name := "--" + f.Name
			if f.Short != 0 {
				name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			}
			if !f.IsBool() {
				name += "=" + strings.ToUpper(f.FormatPlaceHolder())
			}

			var defaultVal string
			if f.HasDefault && !f.IsBool() && f.Default != "" {
				defaultVal = f.Default
			}

			rows = append(rows, helpRow{name: name, help: f.Help, defaultVal: defaultVal})
		}
	}

	return rows
}
