// Package formatting renders plans and task results for the terminal
package formatting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/blairham/go-lint-staged/pkg/task"
)

// Color modes accepted by NewFormatter
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	lineWidth   = 79
	statusWidth = 6 // len("Passed") and len("Failed")
	skipPrefix  = "(not run)"
)

// Status colors
var (
	PassedColor  = color.New(color.BgGreen, color.FgBlack)
	FailedColor  = color.New(color.BgRed, color.FgWhite)
	SkippedColor = color.New(color.BgCyan, color.FgBlack)

	DetailColor = color.New(color.Faint, color.FgWhite)
)

// Plan styles
var (
	patternStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fileStyle    = lipgloss.NewStyle().Faint(true)
	commandStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Formatter writes task results and plans
type Formatter struct {
	out       io.Writer
	colorMode string
	verbose   bool
}

// NewFormatter creates a formatter writing to stdout
func NewFormatter(colorMode string, verbose bool) *Formatter {
	return NewFormatterWithWriter(os.Stdout, colorMode, verbose)
}

// NewFormatterWithWriter creates a formatter writing to w
func NewFormatterWithWriter(w io.Writer, colorMode string, verbose bool) *Formatter {
	return &Formatter{out: w, colorMode: colorMode, verbose: verbose}
}

// PrintResults prints one status line per task. Output of failing commands is
// always shown; output of passing commands only in verbose mode.
func (f *Formatter) PrintResults(results []task.Result) {
	useColor := f.shouldEnableColor()
	color.NoColor = !useColor

	for _, result := range results {
		name := TaskName(result.Task)

		switch {
		case result.Skipped:
			f.printSkipped(result, name, useColor)
		case result.Success:
			f.printSuccess(result, name, useColor)
		default:
			f.printFailure(result, name, useColor)
		}
	}
}

// PrintPlan prints the tasks of a plan with their commands, without running anything
func (f *Formatter) PrintPlan(plan task.Plan) {
	useColor := f.shouldEnableColor()

	if len(plan) == 0 {
		fmt.Fprintln(f.out, "No staged files match any configured pattern.")
		return
	}

	for _, t := range plan {
		header := t.Pattern
		files := fmt.Sprintf("(%s)", filesLabel(len(t.Files)))
		if useColor {
			header = patternStyle.Render(header)
			files = fileStyle.Render(files)
		}
		fmt.Fprintf(f.out, "%s %s\n", header, files)

		if f.verbose {
			for _, file := range t.Files {
				fmt.Fprintf(f.out, "  - %s\n", file)
			}
		}

		for _, cmd := range t.Commands {
			line := "$ " + cmd
			if useColor {
				line = commandStyle.Render(line)
			} else {
				line = "  " + line
			}
			fmt.Fprintln(f.out, line)
		}
	}
}

// TaskName is the label printed for a task
func TaskName(t task.Task) string {
	return fmt.Sprintf("%s (%s)", t.Pattern, filesLabel(len(t.Files)))
}

func filesLabel(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func dots(name string, width int) string {
	return strings.Repeat(".", max(lineWidth-len(name)-width, 1))
}

func (f *Formatter) printSuccess(result task.Result, name string, useColor bool) {
	status := "Passed"
	if useColor {
		status = PassedColor.Sprint(status)
	}
	fmt.Fprintf(f.out, "%s%s%s\n", name, dots(name, statusWidth), status)

	if !f.verbose {
		return
	}

	f.detail(useColor, "- duration: %s", f.formatDuration(result.Duration))
	for _, cmd := range result.Commands {
		f.detail(useColor, "- command: %s", cmd.Command)
		if out := strings.TrimSpace(cmd.Output); out != "" {
			fmt.Fprintf(f.out, "\n%s\n\n", out)
		}
	}
}

func (f *Formatter) printFailure(result task.Result, name string, useColor bool) {
	failed, _ := result.Failed()

	status := "Failed"
	if failed.Timeout {
		status = "Failed (timeout)"
	}
	width := len(status)
	if useColor {
		status = FailedColor.Sprint(status)
	}
	fmt.Fprintf(f.out, "%s%s%s\n", name, dots(name, width), status)

	f.detail(useColor, "- command: %s", failed.Command)
	if f.verbose || failed.Timeout {
		f.detail(useColor, "- duration: %s", f.formatDuration(failed.Duration))
	}
	if failed.ExitCode != 0 {
		f.detail(useColor, "- exit code: %d", failed.ExitCode)
	}
	if failed.Err != nil && strings.TrimSpace(failed.Output) == "" {
		f.detail(useColor, "- error: %v", failed.Err)
	}

	if out := strings.TrimRight(failed.Output, "\n\r\t "); out != "" {
		fmt.Fprintf(f.out, "\n%s\n\n", out)
	}
}

func (f *Formatter) printSkipped(result task.Result, name string, useColor bool) {
	status := "Skipped"
	width := len(skipPrefix) + len(status)
	if useColor {
		status = SkippedColor.Sprint(status)
	}
	fmt.Fprintf(f.out, "%s%s%s%s\n", name, dots(name, width), skipPrefix, status)

	if f.verbose {
		f.detail(useColor, "- commands: %d", len(result.Task.Commands))
	}
}

func (f *Formatter) detail(useColor bool, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if useColor {
		line = DetailColor.Sprint(line)
	}
	fmt.Fprintln(f.out, line)
}

// shouldEnableColor determines if color output should be used based on the color mode setting
func (f *Formatter) shouldEnableColor() bool {
	switch f.colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		// fatih/color detects terminals and NO_COLOR
		return !color.NoColor
	}
}

// formatDuration rounds very fast commands to "0s" and shows longer ones with
// precision that shrinks as they grow
func (f *Formatter) formatDuration(duration time.Duration) string {
	seconds := duration.Seconds()

	switch {
	case seconds < 0.005:
		return "0s"
	case seconds < 1.0:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 60.0:
		return fmt.Sprintf("%.1fs", seconds)
	default:
		minutes := int(seconds) / 60
		remainingSeconds := int(seconds) % 60
		return fmt.Sprintf("%dm%ds", minutes, remainingSeconds)
	}
}

// ValidColorMode reports whether mode is one of auto, always or never
func ValidColorMode(mode string) bool {
	return mode == ColorAuto || mode == ColorAlways || mode == ColorNever
}
