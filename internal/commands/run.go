package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
	"github.com/rs/zerolog"

	"github.com/blairham/go-lint-staged/pkg/git"
	"github.com/blairham/go-lint-staged/pkg/logging"
	"github.com/blairham/go-lint-staged/pkg/task"
	"github.com/blairham/go-lint-staged/pkg/task/formatting"
)

// RunCommand handles the run command functionality
type RunCommand struct{}

// RunOptions holds command-line options for the run command
type RunOptions struct {
	SelectionOptions
	OutputOptions
	Shell      string        `long:"shell"       description:"Shell used to run each command"                  default:"/bin/sh"`
	Timeout    time.Duration `long:"timeout"     description:"Per-command timeout (e.g. 30s, 5m), 0 disables"   default:"0s"`
	Jobs       int           `long:"jobs"        description:"Number of tasks to run concurrently"              default:"1"       short:"j"`
	NoStash    bool          `long:"no-stash"    description:"Do not hide unstaged changes while commands run"`
	AllowEmpty bool          `long:"allow-empty" description:"Allow commands to leave nothing staged"`
	FailFast   bool          `long:"fail-fast"   description:"Stop running tasks after the first failure"`
	Help       bool          `long:"help"        description:"Show this help message"                                             short:"h"`
}

// Help returns the help text for the run command
func (c *RunCommand) Help() string {
	var opts RunOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "run",
		Description: "Run the configured commands against staged files.",
		Examples: []Example{
			{Command: "lint-staged run", Description: "Run against staged files"},
			{Command: "lint-staged run --jobs 4", Description: "Run up to four tasks at once"},
			{Command: "lint-staged run --timeout 2m", Description: "Kill commands running longer than two minutes"},
			CommonExamples.Diff,
			CommonExamples.Files,
			CommonExamples.Config,
			CommonExamples.Verbose,
		},
		Notes: []string{
			"Every rule whose pattern matches at least one file runs once, in declaration order.",
			"Commands of a rule run in order and stop at the first failure.",
			"Unstaged changes are hidden while commands run and restored afterwards.",
			"Files changed by commands are staged again when every task passes.",
			"Commands see LINT_STAGED=1 in their environment.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the run command
func (c *RunCommand) Synopsis() string {
	return "Run commands for staged files matching configured patterns"
}

// RunCommandFactory creates a new run command instance
func RunCommandFactory() (cli.Command, error) {
	return &RunCommand{}, nil
}

// Run executes the run command
func (c *RunCommand) Run(args []string) int {
	var opts RunOptions
	if _, exitCode := parseArgs(&opts, OptionsUsage, args); exitCode != -1 {
		return exitCode
	}

	if err := c.validateOptions(&opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	logging.SetupLogger(opts.Verbosity(), os.Stderr)
	applyColorMode(opts.Color)
	logger := logging.GetLogger("run")

	sel, err := selectFiles(opts.SelectionOptions)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if len(sel.plan) == 0 {
		if !opts.Quiet {
			fmt.Println(emptyPlanMessage)
		}
		return 0
	}

	logger.Info().
		Int("files", len(sel.files)).
		Int("tasks", len(sel.plan)).
		Int("commands", sel.plan.CommandCount()).
		Msg("Plan built")

	var stash *git.StashInfo
	if sel.staged && !opts.NoStash {
		stash, err = c.stashUnstaged(sel.repo, &opts)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := task.NewRunner(c.taskContext(sel, &opts))
	results, runErr := runner.Run(ctx, sel.plan)

	success := runErr == nil && task.Succeeded(results)
	if !opts.Quiet || !success {
		formatting.NewFormatter(opts.Color, opts.Verbose).PrintResults(results)
	}
	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
	}

	if success && sel.staged {
		if err := c.finalizeIndex(sel, &opts, logger); err != nil {
			fmt.Printf("Error: %v\n", err)
			success = false
		}
	}

	if sel.staged && !opts.NoStash {
		if err := c.restoreStash(sel.repo, stash, success, opts.Quiet); err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
	}

	if !success {
		return 1
	}
	return 0
}

// validateOptions rejects option combinations go-flags cannot express
func (c *RunCommand) validateOptions(opts *RunOptions) error {
	if opts.Jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", opts.Jobs)
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative, got %v", opts.Timeout)
	}
	if opts.Quiet && opts.Verbose {
		return errors.New("--quiet and --verbose cannot be used together")
	}
	return nil
}

// taskContext builds the runner settings from the options
func (c *RunCommand) taskContext(sel *selection, opts *RunOptions) *task.Context {
	env := make(map[string]string)
	if sel.config != nil && sel.config.Path != "" {
		env["LINT_STAGED_CONFIG"] = sel.config.Path
	}

	return &task.Context{
		Environment: env,
		RepoRoot:    sel.repo.Root,
		Shell:       opts.Shell,
		Timeout:     opts.Timeout,
		Jobs:        opts.Jobs,
		FailFast:    opts.FailFast,
		Verbose:     opts.Verbose,
	}
}

// stashUnstaged hides unstaged changes so commands only see staged content
func (c *RunCommand) stashUnstaged(repo *git.Repository, opts *RunOptions) (*git.StashInfo, error) {
	stash, err := repo.StashUnstagedChanges(repo.StashDir())
	if err != nil {
		if errors.Is(err, git.ErrNoUnstagedChanges) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to hide unstaged changes: %w", err)
	}

	if !opts.Quiet {
		printWarning("Unstaged changes detected.")
		printInfo("Hiding unstaged changes to %d file(s) in %s.", len(stash.Files), stash.PatchFile)
	}
	return stash, nil
}

// finalizeIndex stages files changed by commands and refuses to leave an empty commit
func (c *RunCommand) finalizeIndex(sel *selection, opts *RunOptions, logger zerolog.Logger) error {
	modified, err := sel.repo.GetModifiedFiles(sel.plan.Paths())
	if err != nil {
		return fmt.Errorf("failed to detect modified files: %w", err)
	}

	if len(modified) > 0 {
		logger.Info().Strs("files", modified).Msg("Staging files modified by commands")
		if err := sel.repo.AddFiles(modified); err != nil {
			return fmt.Errorf("failed to stage modified files: %w", err)
		}
	}

	if opts.AllowEmpty {
		return nil
	}

	hasStaged, err := sel.repo.HasStagedChanges()
	if err != nil {
		return err
	}
	if !hasStaged {
		return task.ErrEmptyCommit
	}
	return nil
}

// restoreStash brings unstaged changes back. A failed run first discards the
// edits commands made so the working tree returns to its original state.
func (c *RunCommand) restoreStash(repo *git.Repository, stash *git.StashInfo, success, quiet bool) error {
	if !success {
		if !quiet {
			printWarning("Reverting changes made by commands.")
		}
		if err := repo.ResetToStaged(); err != nil {
			return fmt.Errorf("failed to revert changes: %w", err)
		}
	}

	if stash == nil {
		return nil
	}

	if err := repo.RestoreFromStash(stash); err != nil {
		if errors.Is(err, git.ErrStashConflict) {
			printWarning("Unstaged changes conflict with changes made by commands.")
			return fmt.Errorf("unstaged changes were kept in %s, apply them with 'git apply'", stash.PatchFile)
		}
		return err
	}
	if !quiet {
		printInfo("Restored unstaged changes.")
	}
	return nil
}
