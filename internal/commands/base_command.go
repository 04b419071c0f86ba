package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"

	"github.com/blairham/go-lint-staged/pkg/config"
	"github.com/blairham/go-lint-staged/pkg/git"
	"github.com/blairham/go-lint-staged/pkg/logging"
	"github.com/blairham/go-lint-staged/pkg/matching"
	"github.com/blairham/go-lint-staged/pkg/rules"
	"github.com/blairham/go-lint-staged/pkg/task"
	"github.com/blairham/go-lint-staged/pkg/task/formatting"
)

var (
	warningColor = color.New(color.BgYellow, color.FgBlack)
	infoColor    = color.New(color.FgCyan)
)

// SelectionOptions chooses the rule table and the files it is matched against.
// Shared by run and list.
type SelectionOptions struct {
	Config   string   `short:"c" long:"config"   description:"Path to config file (default: search the repository root)"`
	Diff     string   `          long:"diff"     description:"Use files changed between two refs (FROM...TO) instead of staged files"`
	Files    []string `          long:"files"    description:"Use the given files instead of staged files"`
	Absolute bool     `          long:"absolute" description:"Pass absolute file paths to commands"`
}

// OutputOptions controls terminal output
type OutputOptions struct {
	Color   string `long:"color"   description:"Whether to use color in output" default:"auto" choice:"auto" choice:"always" choice:"never"`
	Verbose bool   `long:"verbose" description:"Show output of passing commands"                                                                 short:"v"`
	Quiet   bool   `long:"quiet"   description:"Only print errors"                                                                               short:"q"`
	Debug   bool   `long:"debug"   description:"Enable debug logging"                                                                            short:"d"`
}

// Verbosity maps the output flags onto a logging level
func (o OutputOptions) Verbosity() int {
	switch {
	case o.Debug:
		return logging.LevelDebug
	case o.Quiet:
		return logging.LevelQuiet
	case o.Verbose:
		return logging.LevelVerbose
	default:
		return logging.LevelDefault
	}
}

// parseArgs parses args into opts. The returned exit code is -1 when the
// command should continue.
func parseArgs(opts any, usage string, args []string) ([]string, int) {
	parser := flags.NewParser(opts, flags.Default)
	parser.Usage = usage

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return nil, 1
	}

	return remaining, -1
}

// requireGitRepository opens the repository containing the working directory
func requireGitRepository() (*git.Repository, error) {
	repo, err := git.NewRepository("")
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	return repo, nil
}

// selection is the outcome of resolving SelectionOptions against a repository
type selection struct {
	repo   *git.Repository
	config *config.Config
	table  rules.Table
	files  []string
	plan   task.Plan
	// staged is set when files came from the index, which enables stashing and re-staging
	staged bool
}

// selectFiles resolves the configuration, collects the candidate files and builds the plan
func selectFiles(opts SelectionOptions) (*selection, error) {
	if opts.Diff != "" && len(opts.Files) > 0 {
		return nil, errors.New("--diff and --files cannot be used together")
	}

	repo, err := requireGitRepository()
	if err != nil {
		return nil, err
	}

	table, cfg, err := config.Resolve(opts.Config, repo.Root)
	if err != nil {
		return nil, err
	}

	sel := &selection{repo: repo, config: cfg, table: table}

	switch {
	case opts.Diff != "":
		from, to := parseDiffRange(opts.Diff)
		sel.files, err = repo.GetChangedFiles(from, to)
	case len(opts.Files) > 0:
		sel.files, err = repoRelative(repo.Root, opts.Files)
	default:
		if repo.HasUnmergedFiles() {
			return nil, errors.New("unmerged files, resolve before committing")
		}
		sel.staged = true
		sel.files, err = repo.GetStagedFiles()
	}
	if err != nil {
		return nil, err
	}

	sel.plan, err = task.BuildPlan(table, matching.NewMatcher(), sel.files, task.PlanOptions{
		RepoRoot: repo.Root,
		Absolute: opts.Absolute,
	})
	if err != nil {
		return nil, err
	}

	return sel, nil
}

// parseDiffRange splits FROM...TO or FROM..TO. A single ref is compared against HEAD.
func parseDiffRange(diff string) (string, string) {
	if from, to, ok := strings.Cut(diff, "..."); ok {
		return from, orHead(to)
	}
	if from, to, ok := strings.Cut(diff, ".."); ok {
		return from, orHead(to)
	}
	return diff, "HEAD"
}

func orHead(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}

// repoRelative converts user supplied paths to slash separated paths relative
// to root, skipping files that do not exist
func repoRelative(root string, files []string) ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = root
	}

	var out []string
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Printf("Warning: file not found: %s\n", file)
			continue
		}
		if resolved, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
			path = resolved
		}

		rel, relErr := filepath.Rel(realRoot, path)
		if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			fmt.Printf("Warning: file outside repository: %s\n", file)
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}

	return out, nil
}

func printWarning(msg string, args ...any) {
	fmt.Printf("%s %s\n", warningColor.Sprint("[WARNING]"), fmt.Sprintf(msg, args...))
}

func printInfo(msg string, args ...any) {
	fmt.Printf("%s %s\n", infoColor.Sprint("[INFO]"), fmt.Sprintf(msg, args...))
}

// applyColorMode forces color on or off for everything printed through fatih/color
func applyColorMode(mode string) {
	switch mode {
	case formatting.ColorAlways:
		color.NoColor = false
	case formatting.ColorNever:
		color.NoColor = true
	}
}
