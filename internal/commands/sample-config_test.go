package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blairham/go-lint-staged/pkg/config"
)

func sampleConfig(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var code int
	output := captureOutput(t, func() {
		code = (&SampleConfigCommand{}).Run(args)
	})
	return code, output
}

func TestSampleConfigCommand_Help(t *testing.T) {
	cmd := &SampleConfigCommand{}
	assert.Contains(t, cmd.Help(), "--format")
	assert.Equal(t, "Generate a sample configuration file", cmd.Synopsis())
}

func TestSampleConfigCommand_WritesDefaultRules(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, output := sampleConfig(t)
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "Sample configuration written to .lintstagedrc.yaml")

	cfg, err := config.LoadConfig(".lintstagedrc.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Rules, cfg.Rules)

	code, output = sampleConfig(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "already exists")

	code, output = sampleConfig(t, "--force")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "overwrote existing file")
}

func TestSampleConfigCommand_TOML(t *testing.T) {
	t.Chdir(t.TempDir())

	code, output := sampleConfig(t, "--format", "toml")
	require.Equal(t, 0, code, output)

	cfg, err := config.LoadConfig(".lintstagedrc.toml")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Rules, cfg.Rules)
}

func TestSampleConfigCommand_Stdout(t *testing.T) {
	t.Chdir(t.TempDir())

	code, output := sampleConfig(t, "--stdout")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "sfdx-project.json")
	assert.Contains(t, output, "npm run docs:generate")
	assert.NoFileExists(t, ".lintstagedrc.yaml")
}
