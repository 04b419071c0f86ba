package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/blairham/go-lint-staged/pkg/config"
)

// SampleConfigCommand handles the sample-config command functionality
type SampleConfigCommand struct{}

// SampleConfigOptions holds command-line options for the sample-config command
type SampleConfigOptions struct {
	Format string `          long:"format" description:"Config file format" default:"yaml" choice:"yaml" choice:"toml"`
	Force  bool   `short:"f" long:"force"  description:"Overwrite existing configuration file"`
	Stdout bool   `          long:"stdout" description:"Print the sample instead of writing a file"`
	Help   bool   `short:"h" long:"help"   description:"Show this help message"`
}

// Help returns the help text for the sample-config command
func (c *SampleConfigCommand) Help() string {
	var opts SampleConfigOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "sample-config",
		Description: "Generate a sample .lintstagedrc.yaml file holding the built-in rules.",
		Examples: []Example{
			{Command: "lint-staged sample-config", Description: "Generate sample config"},
			{Command: "lint-staged sample-config --format toml", Description: "Generate .lintstagedrc.toml"},
			{Command: "lint-staged sample-config --stdout", Description: "Print the sample"},
			{Command: "lint-staged sample-config --force", Description: "Overwrite existing config"},
		},
		Notes: []string{
			"The sample reproduces the rules used when no config file exists.",
			"Use --force to overwrite an existing configuration file.",
			"Commands without {file} or {files} get the matched files appended, single-quoted.",
			"Set append_files: false on a rule to run its commands without file arguments.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the sample-config command
func (c *SampleConfigCommand) Synopsis() string {
	return "Generate a sample configuration file"
}

// Run executes the sample-config command
func (c *SampleConfigCommand) Run(args []string) int {
	var opts SampleConfigOptions
	if _, exitCode := parseArgs(&opts, OptionsUsage, args); exitCode != -1 {
		return exitCode
	}

	ext := "." + opts.Format
	data, err := config.DefaultConfig().Marshal(ext)
	if err != nil {
		fmt.Printf("Error: failed to marshal configuration: %v\n", err)
		return 1
	}

	if opts.Stdout {
		fmt.Print(string(data))
		return 0
	}

	configPath := strings.TrimSuffix(config.ConfigFileName, ".yaml") + ext

	configExists := false
	if _, statErr := os.Stat(configPath); statErr == nil {
		configExists = true
		if !opts.Force {
			fmt.Printf("Error: %s already exists. Use --force to overwrite.\n", configPath)
			return 1
		}
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		fmt.Printf("Error: failed to write configuration file: %v\n", err)
		return 1
	}

	if configExists {
		fmt.Printf("Sample configuration written to %s (overwrote existing file)\n", configPath)
	} else {
		fmt.Printf("Sample configuration written to %s\n", configPath)
	}
	fmt.Println("Edit the file to customize your rules, then run 'lint-staged install'")
	return 0
}

// SampleConfigCommandFactory creates a new sample-config command instance
func SampleConfigCommandFactory() (cli.Command, error) {
	return &SampleConfigCommand{}, nil
}
