package task

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blairham/go-lint-staged/pkg/matching"
	"github.com/blairham/go-lint-staged/pkg/rules"
)

func TestBuildPlan_DefaultTable(t *testing.T) {
	files := []string{"sfdx-project.json", "force-app/Foo.cls", "README.md", "main.go"}

	plan, err := BuildPlan(rules.Default(), nil, files, PlanOptions{})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	assert.Equal(t, rules.ManifestPattern, plan[0].Pattern)
	assert.Equal(t, []string{"sfdx-project.json"}, plan[0].Files)
	assert.Equal(t, rules.Commands{rules.AliasSortCommand}, plan[0].Commands)

	assert.Equal(t, rules.ClassPattern, plan[1].Pattern)
	assert.Equal(t, rules.Commands{rules.ScanCommand, rules.DocsCommand}, plan[1].Commands)

	// The class file is also formatted, overlapping rules fire independently
	assert.Equal(t, rules.FormatPattern, plan[2].Pattern)
	assert.Equal(t, []string{"sfdx-project.json", "force-app/Foo.cls", "README.md"}, plan[2].Files)
	assert.Equal(t, rules.Commands{
		"prettier --write 'sfdx-project.json'",
		"prettier --write 'force-app/Foo.cls'",
		"prettier --write 'README.md'",
	}, plan[2].Commands)

	assert.Equal(t, []int{0, 1, 2}, []int{plan[0].Index, plan[1].Index, plan[2].Index})
	assert.Equal(t, 6, plan.CommandCount())
}

func TestBuildPlan_SkipsUnmatchedRules(t *testing.T) {
	plan, err := BuildPlan(rules.Default(), matching.NewMatcher(), []string{"src/app.js"}, PlanOptions{})
	require.NoError(t, err)
	require.Len(t, plan, 1)

	assert.Equal(t, 2, plan[0].Index)
	assert.Equal(t, rules.Commands{"prettier --write 'src/app.js'"}, plan[0].Commands)
}

func TestBuildPlan_NoFiles(t *testing.T) {
	plan, err := BuildPlan(rules.Default(), nil, nil, PlanOptions{})
	require.NoError(t, err)
	assert.Empty(t, plan)
	assert.Zero(t, plan.CommandCount())
}

func TestBuildPlan_Absolute(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")

	plan, err := BuildPlan(rules.Default(), nil, []string{"a/b.md"}, PlanOptions{RepoRoot: root, Absolute: true})
	require.NoError(t, err)
	require.Len(t, plan, 1)

	abs := filepath.Join(root, "a", "b.md")
	assert.Equal(t, []string{abs}, plan[0].Files)
	assert.Equal(t, []string{"a/b.md"}, plan[0].Paths)
	assert.Equal(t, rules.Commands{"prettier --write '" + abs + "'"}, plan[0].Commands)
}

func TestBuildPlan_InvalidPattern(t *testing.T) {
	table := rules.Table{{Pattern: "re:(unclosed", Action: rules.Fixed("true")}}

	_, err := BuildPlan(table, nil, []string{"a.txt"}, PlanOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, matching.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "rule 0")
}

func TestPlan_Paths(t *testing.T) {
	plan := Plan{
		{Paths: []string{"a.cls", "b.cls"}},
		{Paths: []string{"b.cls", "c.md", "a.cls"}},
	}

	assert.Equal(t, []string{"a.cls", "b.cls", "c.md"}, plan.Paths())
	assert.Nil(t, Plan{}.Paths())
}

func TestSucceeded(t *testing.T) {
	assert.True(t, Succeeded(nil))
	assert.True(t, Succeeded([]Result{{Success: true}, {Skipped: true}}))
	assert.False(t, Succeeded([]Result{{Success: true}, {Success: false}}))
}

func TestResult_Failed(t *testing.T) {
	ok := CommandResult{Command: "true"}
	bad := CommandResult{Command: "false", ExitCode: 1}

	_, failed := Result{Commands: []CommandResult{ok}}.Failed()
	assert.False(t, failed)

	got, failed := Result{Commands: []CommandResult{ok, bad}}.Failed()
	assert.True(t, failed)
	assert.Equal(t, "false", got.Command)
}
