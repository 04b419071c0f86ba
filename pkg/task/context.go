// Package task turns a rule table and a staged file set into a plan of shell
// commands and runs it
package task

import (
	"errors"
	"time"

	"github.com/blairham/go-lint-staged/pkg/rules"
)

// EnvMarker is exported to every command so scripts can detect lint-staged
const EnvMarker = "LINT_STAGED"

// DefaultShell runs commands when no shell is configured
const DefaultShell = "/bin/sh"

// ErrEmptyCommit is returned when commands undid every staged change
var ErrEmptyCommit = errors.New("lint-staged prevented an empty git commit")

// Context holds settings for one lint-staged run
type Context struct {
	Environment map[string]string
	RepoRoot    string
	Shell       string
	Timeout     time.Duration
	Jobs        int
	FailFast    bool
	Verbose     bool
}

// Task is one matched rule with the files it matched and the commands its action produced
type Task struct {
	Pattern string
	// Files are the filenames handed to the action
	Files []string
	// Paths are the same files relative to the repository root
	Paths    []string
	Commands rules.Commands
	Index    int
}

// Plan is the ordered list of tasks for one run
type Plan []Task

// Paths returns the distinct repository-relative files covered by the plan, in first-seen order
func (p Plan) Paths() []string {
	seen := make(map[string]bool)
	var files []string
	for _, t := range p {
		for _, f := range t.Paths {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// CommandCount returns the total number of commands in the plan
func (p Plan) CommandCount() int {
	n := 0
	for _, t := range p {
		n += len(t.Commands)
	}
	return n
}

// CommandResult is the outcome of one shell invocation
type CommandResult struct {
	Err      error
	Command  string
	Output   string
	Duration time.Duration
	ExitCode int
	Timeout  bool
}

// Success reports whether the command exited zero
func (c CommandResult) Success() bool {
	return c.Err == nil && c.ExitCode == 0
}

// Result represents the result of running one task
type Result struct {
	Commands []CommandResult
	Task     Task
	Duration time.Duration
	Success  bool
	Skipped  bool
}

// Failed returns the first failed command, if any
func (r Result) Failed() (CommandResult, bool) {
	for _, c := range r.Commands {
		if !c.Success() {
			return c, true
		}
	}
	return CommandResult{}, false
}

// Succeeded reports whether every non-skipped task succeeded
func Succeeded(results []Result) bool {
	for _, r := range results {
		if !r.Skipped && !r.Success {
			return false
		}
	}
	return true
}
