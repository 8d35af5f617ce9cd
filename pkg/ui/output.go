package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Color functions
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

// out is where every helper in this package writes. Tests swap it via SetOutput.
var out io.Writer = color.Output

// SetOutput redirects console output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Success prints a success message
func Success(message string) {
	fmt.Fprintf(out, "%s %s\n", green("✅"), message)
}

// Error prints an error message
func Error(message string) {
	fmt.Fprintf(out, "%s %s\n", red("❌"), message)
}

// Warning prints a warning message
func Warning(message string) {
	fmt.Fprintf(out, "%s %s\n", yellow("⚠️ "), message)
}

// Info prints an info message
func Info(message string) {
	fmt.Fprintf(out, "%s %s\n", blue("ℹ️ "), message)
}

// Debug prints a dimmed diagnostic message
func Debug(message string) {
	fmt.Fprintf(out, "%s %s\n", faint("·"), faint(message))
}

// Section prints a section header
func Section(title string) {
	fmt.Fprintf(out, "\n%s %s\n\n", cyan("»"), bold(title))
}

// Rocket prints a message with a rocket emoji
func Rocket(message string) {
	fmt.Fprintf(out, "%s %s\n", "🚀", message)
}

// Loading prints a loading message
func Loading(message string) {
	fmt.Fprintf(out, "%s %s\n", "⏳", message)
}

// CheckMark prints a check mark with a message
func CheckMark(message string) {
	fmt.Fprintf(out, "  %s %s\n", green("✅"), message)
}

// CrossMark prints a cross mark with a message
func CrossMark(message string) {
	fmt.Fprintf(out, "  %s %s\n", red("❌"), message)
}

// WarnMark prints a warning mark with a message
func WarnMark(message string) {
	fmt.Fprintf(out, "  %s %s\n", yellow("⚠️ "), message)
}

// PrintHeader prints a header message
func PrintHeader(message string) {
	fmt.Fprintf(out, "\n%s\n", bold(message))
}

// PrintCommand prints a command to run
func PrintCommand(command string) {
	fmt.Fprintf(out, "      %s\n", magenta(command))
}

// PrintStatusLine prints a status line with label and value
func PrintStatusLine(label, value string) {
	fmt.Fprintf(out, "  %s %s\n", cyan(label+":"), value)
}

// Plain prints a message without decoration
func Plain(message string) {
	fmt.Fprintln(out, message)
}

// NewLine prints a new line
func NewLine() {
	fmt.Fprintln(out)
}

// Bold returns a bold-formatted string
func Bold(text string) string {
	return bold(text)
}
