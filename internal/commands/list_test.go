package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listCommand(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var code int
	output := captureOutput(t, func() {
		code = (&ListCommand{}).Run(append([]string{"--color", "never"}, args...))
	})
	return code, output
}

func TestListCommand_Help(t *testing.T) {
	help := (&ListCommand{}).Help()
	assert.Contains(t, help, "--diff")
	assert.Contains(t, help, "without running them")
}

func TestListCommand_PrintsPlan(t *testing.T) {
	dir := setupRepo(t)
	writeFile(t, dir, "sfdx-project.json", "{}\n")
	writeFile(t, dir, "force-app/Foo.cls", "class Foo {}\n")
	runGit(t, dir, "add", ".")

	code, output := listCommand(t)
	assert.Equal(t, 0, code)

	assert.Contains(t, output, "sfdx-project.json (1 file)")
	assert.Contains(t, output, "$ npm run package:aliases:sort")
	assert.Contains(t, output, "*.cls (1 file)")
	assert.Contains(t, output, "$ npm run scan")
	assert.Contains(t, output, "$ npm run docs:generate")
	assert.Contains(t, output, "$ prettier --write 'force-app/Foo.cls'")
	assert.Contains(t, output, "$ prettier --write 'sfdx-project.json'")

	// Nothing ran, so nothing was staged or changed
	assert.Equal(t, "{}\n", readFile(t, dir, "sfdx-project.json"))
}

func TestListCommand_Empty(t *testing.T) {
	setupRepo(t)

	code, output := listCommand(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, output, emptyPlanMessage)
}

func TestListCommand_NotARepository(t *testing.T) {
	t.Chdir(t.TempDir())

	code, output := listCommand(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "Error:")
}
