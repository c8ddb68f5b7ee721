package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"toyc/internal/diag"
	"toyc/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// printDiagnostics renders a bag to stderr, one line per diagnostic, in
// deterministic order.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()

	useColor := colorEnabled(cmd)
	for _, d := range bag.Items() {
		label := severityColor(d.Severity).SprintFunc()
		if !useColor {
			label = fmt.Sprint
		}
		// Load failures carry no resolvable span.
		if fs == nil || int(d.Primary.File) >= fs.Len() {
			fmt.Fprintf(os.Stderr, "%s[%s] %s\n",
				label(severityName(d.Severity)), d.Code.ID(), d.Message)
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		file := fs.Get(d.Primary.File)
		fmt.Fprintf(os.Stderr, "%s[%s] %s:%d:%d %s\n",
			label(severityName(d.Severity)), d.Code.ID(),
			file.Path, start.Line, start.Col, d.Message)
		for _, note := range d.Notes {
			nstart, _ := fs.Resolve(note.Span)
			nfile := fs.Get(note.Span.File)
			fmt.Fprintf(os.Stderr, "  note: %s:%d:%d %s\n",
				nfile.Path, nstart.Line, nstart.Col, note.Msg)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func severityName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func colorEnabled(cmd *cobra.Command) bool {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		flag = "auto"
	}
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0
	}
	return n
}
