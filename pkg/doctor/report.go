package doctor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/braunmar/deskshell/pkg/ui"
)

// Print outputs the report in human-readable format
func (r *Report) Print() {
	ui.PrintHeader("🏥 deskshell doctor")
	ui.NewLine()
	printSeparator()

	for _, c := range r.Checks {
		line := fmt.Sprintf("%s: %s", ui.Bold(c.Name), c.Detail)
		switch c.Status {
		case StatusOK:
			ui.CheckMark(line)
		case StatusWarn:
			ui.WarnMark(line)
		default:
			ui.CrossMark(line)
		}
		if c.Hint != "" {
			ui.PrintCommand("💡 " + c.Hint)
		}
	}

	ui.NewLine()
	printSeparator()
	r.printSummary()
	ui.NewLine()
}

func (r *Report) printSummary() {
	ui.Section("📊 SUMMARY")
	ui.PrintStatusLine("Health", r.Summary.HealthStatus)
	ui.PrintStatusLine("Errors", fmt.Sprintf("%d", r.Summary.ErrorsCount))
	ui.PrintStatusLine("Warnings", fmt.Sprintf("%d", r.Summary.WarningsCount))
}

// ToJSON outputs the report in JSON format
func (r *Report) ToJSON() string {
	data, _ := json.MarshalIndent(r, "", "  ")
	return string(data)
}

// ExitCode returns the appropriate exit code based on report status
func (r *Report) ExitCode() int {
	if r.Summary.ErrorsCount > 0 {
		return 2
	}
	if r.Summary.WarningsCount > 0 {
		return 1
	}
	return 0
}

func printSeparator() {
	ui.Plain(strings.Repeat("━", 70))
	ui.NewLine()
}
