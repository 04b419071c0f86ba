package commands

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/blairham/go-lint-staged/pkg/logging"
	"github.com/blairham/go-lint-staged/pkg/task/formatting"
)

// ListCommand prints the plan for the current file selection without running it
type ListCommand struct{}

// ListOptions holds command-line options for the list command
type ListOptions struct {
	SelectionOptions
	OutputOptions
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the list command
func (c *ListCommand) Help() string {
	var opts ListOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "list",
		Description: "Show which commands would run for the staged files, without running them.",
		Examples: []Example{
			{Command: "lint-staged list", Description: "Show the plan for staged files"},
			{Command: "lint-staged list --verbose", Description: "Also list the files of each rule"},
			CommonExamples.Diff,
			CommonExamples.Files,
		},
		Notes: []string{
			"Nothing is stashed, executed or staged.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the list command
func (c *ListCommand) Synopsis() string {
	return "Show the commands that would run"
}

// ListCommandFactory creates a new list command instance
func ListCommandFactory() (cli.Command, error) {
	return &ListCommand{}, nil
}

// Run executes the list command
func (c *ListCommand) Run(args []string) int {
	var opts ListOptions
	if _, exitCode := parseArgs(&opts, OptionsUsage, args); exitCode != -1 {
		return exitCode
	}

	logging.SetupLogger(opts.Verbosity(), os.Stderr)
	applyColorMode(opts.Color)

	sel, err := selectFiles(opts.SelectionOptions)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	formatting.NewFormatter(opts.Color, opts.Verbose).PrintPlan(sel.plan)
	return 0
}
