package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/blairham/go-lint-staged/pkg/git"
)

// InstallCommand handles the install command functionality
type InstallCommand struct{}

// InstallOptions holds command-line options for the install command
type InstallOptions struct {
	Executable string `          long:"executable" description:"Command the hook invokes"                                       default:"lint-staged"`
	Overwrite  bool   `short:"f" long:"overwrite"  description:"Overwrite an existing hook that was not written by lint-staged"`
	Help       bool   `short:"h" long:"help"       description:"Show this help message"`
}

// Help returns the help text for the install command
func (c *InstallCommand) Help() string {
	var opts InstallOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = installUsage

	formatter := &HelpFormatter{
		Command:     "install",
		Description: "Install the lint-staged pre-commit hook into the git repository.",
		Examples: []Example{
			{Command: "lint-staged install", Description: "Install the pre-commit hook"},
			{Command: "lint-staged install --overwrite", Description: "Replace a foreign hook"},
			{Command: "lint-staged install -- --jobs 4", Description: "Always run four tasks at once"},
		},
		Notes: []string{
			"A hook previously written by lint-staged is always replaced.",
			"Other hooks are only replaced with --overwrite.",
			"Arguments after -- are passed to 'lint-staged run' by the hook.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the install command
func (c *InstallCommand) Synopsis() string {
	return "Install the pre-commit hook into git repository"
}

// Run executes the install command
func (c *InstallCommand) Run(args []string) int {
	var opts InstallOptions
	runArgs, exitCode := parseArgs(&opts, installUsage, args)
	if exitCode != -1 {
		return exitCode
	}

	repo, err := requireGitRepository()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if repo.HasHook(hookTypePreCommit) && !opts.Overwrite && !isManagedHook(repo) {
		fmt.Printf("Error: hook %s already exists (use --overwrite to replace)\n", hookTypePreCommit)
		return 1
	}

	script := c.generateHookScript(opts.Executable, runArgs)
	if err := repo.InstallHook(hookTypePreCommit, script); err != nil {
		fmt.Printf("Error: failed to install %s hook: %v\n", hookTypePreCommit, err)
		return 1
	}

	rel, relErr := filepath.Rel(repo.Root, filepath.Join(repo.HooksDir(), hookTypePreCommit))
	if relErr != nil {
		rel = filepath.Join(repo.HooksDir(), hookTypePreCommit)
	}
	fmt.Printf("lint-staged installed at %s\n", rel)
	return 0
}

// generateHookScript builds the pre-commit hook body
func (c *InstallCommand) generateHookScript(executable string, runArgs []string) string {
	line := fmt.Sprintf("exec %s run", shellQuote(executable))
	for _, arg := range runArgs {
		line += " " + shellQuote(arg)
	}
	return "#!/bin/sh\n" + hookMarker + "\n" + line + "\n"
}

// shellQuote single-quotes arg unless it only holds characters sh leaves alone
func shellQuote(arg string) string {
	if arg != "" && strings.IndexFunc(arg, func(r rune) bool {
		return !strings.ContainsRune(shellSafe, r)
	}) == -1 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// isManagedHook reports whether the installed pre-commit hook was written by lint-staged
func isManagedHook(repo *git.Repository) bool {
	content, err := repo.ReadHook(hookTypePreCommit)
	if err != nil {
		return false
	}
	return strings.Contains(content, hookMarker)
}

// InstallCommandFactory creates a new install command instance
func InstallCommandFactory() (cli.Command, error) {
	return &InstallCommand{}, nil
}
