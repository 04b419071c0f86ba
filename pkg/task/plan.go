package task

import (
	"fmt"
	"path/filepath"

	"github.com/blairham/go-lint-staged/pkg/matching"
	"github.com/blairham/go-lint-staged/pkg/rules"
)

// PlanOptions controls how filenames are handed to actions
type PlanOptions struct {
	// RepoRoot is joined to filenames when Absolute is set
	RepoRoot string
	Absolute bool
}

// BuildPlan matches every rule against files and calls each matching rule's
// action. Rules that match nothing produce no task. Overlapping rules each
// produce their own task.
func BuildPlan(table rules.Table, matcher *matching.Matcher, files []string, opts PlanOptions) (Plan, error) {
	if matcher == nil {
		matcher = matching.NewMatcher()
	}

	var plan Plan
	for i, rule := range table {
		matched, err := matcher.FilesForRule(rule, files)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Pattern, err)
		}
		if len(matched) == 0 {
			continue
		}

		handed := matched
		if opts.Absolute {
			handed = absolutize(opts.RepoRoot, matched)
		}

		plan = append(plan, Task{
			Index:    i,
			Pattern:  rule.Pattern,
			Files:    handed,
			Paths:    matched,
			Commands: rule.Commands(handed),
		})
	}

	return plan, nil
}

func absolutize(root string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(root, filepath.FromSlash(f))
	}
	return out
}
