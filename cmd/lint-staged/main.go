// Package main provides the lint-staged command-line tool.
// It runs configured shell commands against the files staged for commit.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/blairham/go-lint-staged/internal/commands"
)

// Version information set by GoReleaser
var (
	version = "dev"
	commit  = "none"    //nolint:unused // Set by GoReleaser
	date    = "unknown" //nolint:unused // Set by GoReleaser
	builtBy = "unknown" //nolint:unused // Set by GoReleaser
)

func main() {
	c := cli.NewCLI("lint-staged", version)
	c.Args = defaultToRun(os.Args[1:])
	c.HelpFunc = customHelpFunc
	c.Commands = map[string]cli.CommandFactory{
		"run":             commands.RunCommandFactory,
		"list":            commands.ListCommandFactory,
		"install":         commands.InstallCommandFactory,
		"uninstall":       commands.UninstallCommandFactory,
		"validate-config": commands.ValidateConfigCommandFactory,
		"sample-config":   commands.SampleConfigCommandFactory,
		"help":            commands.HelpCommandFactory,
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitStatus)
}

// defaultToRun makes a bare invocation, or one starting with run flags, mean "run"
func defaultToRun(args []string) []string {
	if len(args) == 0 {
		return []string{"run"}
	}

	switch args[0] {
	case "-h", "--help", "-help", "-v", "--version", "-version":
		return args
	}

	if strings.HasPrefix(args[0], "-") {
		return append([]string{"run"}, args...)
	}
	return args
}

// customHelpFunc lists every command with its summary
func customHelpFunc(cmdFactories map[string]cli.CommandFactory) string {
	var b strings.Builder

	b.WriteString("usage: lint-staged [-h] [--version] [COMMAND] [OPTIONS]\n\n")
	b.WriteString("Run commands against staged files that match configured patterns.\n")
	b.WriteString("Without a command, run is assumed.\n\n")
	b.WriteString("commands:\n")

	for _, name := range commands.CommandNames() {
		factory, ok := cmdFactories[name]
		if !ok {
			continue
		}
		cmd, err := factory()
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  %-18s%s\n", name, cmd.Synopsis())
	}

	b.WriteString(`
optional arguments:
  -h, --help            show this help message and exit
  --version             show program's version number and exit
`)

	return b.String()
}
