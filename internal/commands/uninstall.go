package commands

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
)

// UninstallCommand handles the uninstall command functionality
type UninstallCommand struct{}

// UninstallOptions holds command-line options for the uninstall command
type UninstallOptions struct {
	Force bool `short:"f" long:"force" description:"Remove the hook even if lint-staged did not write it"`
	Help  bool `short:"h" long:"help"  description:"Show this help message"`
}

// Help returns the help text for the uninstall command
func (c *UninstallCommand) Help() string {
	var opts UninstallOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "uninstall",
		Description: "Uninstall the lint-staged pre-commit hook from the git repository.",
		Examples: []Example{
			{Command: "lint-staged uninstall", Description: "Remove the pre-commit hook"},
		},
		Notes: []string{
			"Only hooks written by 'lint-staged install' are removed unless --force is given.",
			"It does not affect your configuration file.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the uninstall command
func (c *UninstallCommand) Synopsis() string {
	return "Uninstall the pre-commit hook from git repository"
}

// Run executes the uninstall command
func (c *UninstallCommand) Run(args []string) int {
	var opts UninstallOptions
	if _, exitCode := parseArgs(&opts, OptionsUsage, args); exitCode != -1 {
		return exitCode
	}

	repo, err := requireGitRepository()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if !repo.HasHook(hookTypePreCommit) {
		fmt.Println("No pre-commit hook installed")
		return 0
	}

	if !opts.Force && !isManagedHook(repo) {
		fmt.Printf("Error: %s hook was not installed by lint-staged (use --force to remove it)\n", hookTypePreCommit)
		return 1
	}

	if err := repo.UninstallHook(hookTypePreCommit); err != nil {
		fmt.Printf("Error: failed to uninstall %s hook: %v\n", hookTypePreCommit, err)
		return 1
	}

	fmt.Println("lint-staged uninstalled")
	return 0
}

// UninstallCommandFactory creates a new uninstall command instance
func UninstallCommandFactory() (cli.Command, error) {
	return &UninstallCommand{}, nil
}
