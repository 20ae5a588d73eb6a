// Package printer writes colored status and error messages for the CLI.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)

	// Stderr receives warnings and errors. Tests may swap it.
	Stderr io.Writer = os.Stderr
)

// Warning prints a yellow warning line to Stderr.
func Warning(format string, a ...any) {
	yellow.Fprintf(Stderr, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line to Stderr so it never mixes with
// command output.
func Step(format string, a ...any) {
	cyan.Fprintf(Stderr, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints title in red followed by the cause and an optional hint, and
// returns an error carrying only the title for cobra.
func Error(title string, cause error, hint string) error {
	red.Fprintf(Stderr, "%s\n", title)
	if cause != nil {
		fmt.Fprintf(Stderr, "\n%v\n", cause)
	}
	if hint != "" {
		fmt.Fprintf(Stderr, "\n%s\n", hint)
	}
	return fmt.Errorf("%s", title)
}
