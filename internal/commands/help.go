package commands

import (
	"fmt"
	"slices"

	"github.com/mitchellh/cli"
)

// HelpCommand handles the help command functionality
type HelpCommand struct{}

// HelpOptions holds command-line options for the help command
type HelpOptions struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// commandSummaries describes every command for the help command and the main usage text
var commandSummaries = map[string]string{
	"run":             "Run the configured commands against staged files. This is what the pre-commit hook calls.",
	"list":            "Show which commands would run for the staged files, without running them.",
	"install":         "Install the pre-commit hook. Run this once per repository.",
	"uninstall":       "Remove the pre-commit hook written by install.",
	"validate-config": "Check that your lint-staged configuration file is valid.",
	"sample-config":   "Generate a configuration file holding the built-in rules.",
	"help":            "Show help information for commands.",
}

// CommandNames returns the documented command names in alphabetical order
func CommandNames() []string {
	names := make([]string, 0, len(commandSummaries))
	for name := range commandSummaries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Help returns the help text for the help command
func (c *HelpCommand) Help() string {
	helpText := `
Show help for a specific command.

Usage: lint-staged help [COMMAND]

If COMMAND is specified, shows a summary of that command.
If no command is specified, lists all commands.

Available commands:
`
	for _, name := range CommandNames() {
		helpText += fmt.Sprintf("  %-18s%s\n", name, commandSummaries[name])
	}
	return helpText + "\n"
}

// Synopsis returns a short description of the help command
func (c *HelpCommand) Synopsis() string {
	return "Show help for a specific command"
}

// Run executes the help command
func (c *HelpCommand) Run(args []string) int {
	var opts HelpOptions
	remaining, exitCode := parseArgs(&opts, "[COMMAND]", args)
	if exitCode != -1 {
		return exitCode
	}

	if len(remaining) == 0 {
		fmt.Print(c.Help())
		return 0
	}

	command := remaining[0]
	summary, exists := commandSummaries[command]
	if !exists {
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println("Available commands:")
		for _, name := range CommandNames() {
			fmt.Printf("  %s\n", name)
		}
		return 1
	}

	fmt.Printf("Command: %s\n\n", command)
	fmt.Printf("Description: %s\n\n", summary)
	fmt.Printf("For detailed usage information, run:\n")
	fmt.Printf("  lint-staged %s --help\n", command)
	return 0
}

// HelpCommandFactory creates a new help command instance
func HelpCommandFactory() (cli.Command, error) {
	return &HelpCommand{}, nil
}
