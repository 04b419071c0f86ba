package commands

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/blairham/go-lint-staged/pkg/config"
)

// ValidateConfigCommand handles the validate-config command functionality
type ValidateConfigCommand struct{}

// ValidateConfigOptions holds command-line options for the validate-config command
type ValidateConfigOptions struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the validate-config command
func (c *ValidateConfigCommand) Help() string {
	var opts ValidateConfigOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILENAMES...]"

	formatter := &HelpFormatter{
		Command:     "validate-config",
		Description: "Validate lint-staged configuration files.",
		Examples: []Example{
			{Command: "lint-staged validate-config", Description: "Validate the config found in the repository"},
			{Command: "lint-staged validate-config .lintstagedrc.toml", Description: "Validate a specific file"},
		},
		Notes: []string{
			"Checks that every rule has a valid pattern and at least one command.",
			"Returns exit code 0 if valid, non-zero if there are errors.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the validate-config command
func (c *ValidateConfigCommand) Synopsis() string {
	return "Validate configuration file"
}

// Run executes the validate-config command
func (c *ValidateConfigCommand) Run(args []string) int {
	var opts ValidateConfigOptions
	paths, exitCode := parseArgs(&opts, "[OPTIONS] [FILENAMES...]", args)
	if exitCode != -1 {
		return exitCode
	}

	if len(paths) == 0 {
		found, err := c.findDefault()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
		paths = []string{found}
	}

	status := 0
	for _, path := range paths {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			fmt.Printf("Error: failed to load configuration: %v\n", err)
			status = 1
			continue
		}

		if err := cfg.Validate(); err != nil {
			fmt.Printf("Error: %s is invalid: %v\n", path, err)
			status = 1
			continue
		}

		fmt.Printf("%s is valid (%d rules)\n", path, len(cfg.Rules))
	}

	return status
}

// findDefault locates the config file of the current repository, falling back
// to the working directory outside a repository
func (c *ValidateConfigCommand) findDefault() (string, error) {
	dir := ""
	if repo, err := requireGitRepository(); err == nil {
		dir = repo.Root
	}
	return config.FindConfig(dir)
}

// ValidateConfigCommandFactory creates a new validate-config command instance
func ValidateConfigCommandFactory() (cli.Command, error) {
	return &ValidateConfigCommand{}, nil
}
