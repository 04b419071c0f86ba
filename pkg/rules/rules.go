// Package rules declares the pattern-to-command table consumed at commit time.
//
// A Rule pairs a file pattern with an Action. The Action is a pure function
// from the staged filenames that matched the pattern to the shell commands that
// should run against them. Actions never execute anything; running the commands
// is the job of the task package.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholders understood by Template, WithFiles and PerFile
const (
	FilePlaceholder  = "{file}"
	FilesPlaceholder = "{files}"
)

// Commands is an ordered list of shell command strings. Each element is run as
// a separate shell invocation. A single command is a one-element slice.
type Commands []string

// Action builds the commands for the filenames matched by a rule
type Action func(filenames []string) Commands

// Rule maps a pattern to the action producing its commands
type Rule struct {
	Action  Action
	Pattern string
}

// Commands calls the rule's action with the given filenames
func (r Rule) Commands(filenames []string) Commands {
	if r.Action == nil {
		return Commands{}
	}
	return r.Action(filenames)
}

// Table is the ordered list of rules. Declaration order is execution order.
type Table []Rule

// Built-in rule patterns
const (
	ManifestPattern  = "sfdx-project.json"
	ClassPattern     = "*.cls"
	FormatPattern    = "*.{cls,cmp,component,css,html,js,json,md,page,trigger,yaml,yml}"
	FormatCommand    = "prettier --write '" + FilePlaceholder + "'"
	AliasSortCommand = "npm run package:aliases:sort"
	ScanCommand      = "npm run scan"
	DocsCommand      = "npm run docs:generate"
)

// Default returns the built-in table. Each call returns a fresh copy.
func Default() Table {
	return Table{
		{Pattern: ManifestPattern, Action: Fixed(AliasSortCommand)},
		{Pattern: ClassPattern, Action: Fixed(ScanCommand, DocsCommand)},
		{Pattern: FormatPattern, Action: PerFile(FormatCommand)},
	}
}

// Fixed returns an action that ignores its input and always yields cmds
func Fixed(cmds ...string) Action {
	fixed := append(Commands{}, cmds...)
	return func([]string) Commands {
		return append(Commands{}, fixed...)
	}
}

// PerFile returns an action yielding one command per filename, with every
// occurrence of {file} in format replaced by the filename verbatim.
func PerFile(format string) Action {
	return func(filenames []string) Commands {
		cmds := make(Commands, 0, len(filenames))
		for _, name := range filenames {
			cmds = append(cmds, strings.ReplaceAll(format, FilePlaceholder, name))
		}
		return cmds
	}
}

// Template returns an action expanding each template in order.
//
// A template containing {file} expands once per filename. A template
// containing {files} expands once, with every filename single-quoted and
// joined by spaces. Any other template is emitted as is.
func Template(templates ...string) Action {
	tmpls := append([]string{}, templates...)
	return func(filenames []string) Commands {
		cmds := Commands{}
		for _, tmpl := range tmpls {
			cmds = append(cmds, expand(tmpl, filenames)...)
		}
		return cmds
	}
}

// WithFiles is like Template, except that a template without a placeholder
// gets every filename appended, single-quoted and joined by spaces.
func WithFiles(templates ...string) Action {
	tmpls := append([]string{}, templates...)
	return func(filenames []string) Commands {
		cmds := Commands{}
		for _, tmpl := range tmpls {
			if !hasPlaceholder(tmpl) && len(filenames) > 0 {
				tmpl += " " + quoteAll(filenames)
			}
			cmds = append(cmds, expand(tmpl, filenames)...)
		}
		return cmds
	}
}

func hasPlaceholder(tmpl string) bool {
	return strings.Contains(tmpl, FilePlaceholder) || strings.Contains(tmpl, FilesPlaceholder)
}

func expand(tmpl string, filenames []string) Commands {
	switch {
	case strings.Contains(tmpl, FilePlaceholder):
		return PerFile(tmpl)(filenames)
	case strings.Contains(tmpl, FilesPlaceholder):
		return Commands{strings.ReplaceAll(tmpl, FilesPlaceholder, quoteAll(filenames))}
	default:
		return Commands{tmpl}
	}
}

// quoteAll single-quotes each filename for sh and joins them with spaces
func quoteAll(filenames []string) string {
	quoted := make([]string, len(filenames))
	for i, name := range filenames {
		quoted[i] = "'" + strings.ReplaceAll(name, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

// ErrInvalidRule is returned by Validate for a rule missing its pattern or action
var ErrInvalidRule = errors.New("invalid rule")

// Validate checks that every rule has a pattern and an action
func (t Table) Validate() error {
	for i, rule := range t {
		if strings.TrimSpace(rule.Pattern) == "" {
			return fmt.Errorf("rule %d: %w: pattern is required", i, ErrInvalidRule)
		}
		if rule.Action == nil {
			return fmt.Errorf("rule %d (%s): %w: action is required", i, rule.Pattern, ErrInvalidRule)
		}
	}
	return nil
}

// Patterns returns the rule patterns in declaration order
func (t Table) Patterns() []string {
	patterns := make([]string, len(t))
	for i, rule := range t {
		patterns[i] = rule.Pattern
	}
	return patterns
}
