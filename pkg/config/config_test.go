package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blairham/go-lint-staged/pkg/rules"
)

const listConfig = `rules:
  - pattern: sfdx-project.json
    run: npm run package:aliases:sort
    append_files: false
  - pattern: "*.cls"
    append_files: false
    run:
      - npm run scan
      - npm run docs:generate
  - pattern: "*.{cls,cmp,component,css,html,js,json,md,page,trigger,yaml,yml}"
    run: prettier --write '{file}'
`

const mappingConfig = `sfdx-project.json: npm run package:aliases:sort
"*.cls":
  - npm run scan
  - npm run docs:generate
"*.{cls,cmp,component,css,html,js,json,md,page,trigger,yaml,yml}": prettier --write '{file}'
`

const jsonConfig = `{
  "sfdx-project.json": "npm run package:aliases:sort",
  "*.cls": ["npm run scan", "npm run docs:generate"],
  "*.{cls,cmp,component,css,html,js,json,md,page,trigger,yaml,yml}": "prettier --write '{file}'"
}`

const tomlConfig = `[[rules]]
pattern = "sfdx-project.json"
run = "npm run package:aliases:sort"
append_files = false

[[rules]]
pattern = "*.cls"
run = ["npm run scan", "npm run docs:generate"]
append_files = false

[[rules]]
pattern = "*.{cls,cmp,component,css,html,js,json,md,page,trigger,yaml,yml}"
run = "prettier --write '{file}'"
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_Formats(t *testing.T) {
	// The mapping shapes have no way to turn off file appending
	mappingRules := DefaultConfig().Rules
	for i := range mappingRules {
		mappingRules[i].AppendFiles = nil
	}

	tests := []struct {
		name     string
		content  string
		ext      string
		expected []Rule
	}{
		{name: "yaml rules list", content: listConfig, ext: ".yaml", expected: DefaultConfig().Rules},
		{name: "yaml mapping", content: mappingConfig, ext: ".yml", expected: mappingRules},
		{name: "json mapping", content: jsonConfig, ext: ".json", expected: mappingRules},
		{name: "toml", content: tomlConfig, ext: ".toml", expected: DefaultConfig().Rules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Rules)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_TableAppendsFiles(t *testing.T) {
	cfg, err := Parse([]byte(`"*.js": eslint --fix
"*.md":
  - markdownlint
  - prettier --write '{file}'
`), ".yaml")
	require.NoError(t, err)

	table := cfg.Table()
	require.Len(t, table, 2)
	assert.Equal(t, rules.Commands{"eslint --fix 'a.js' 'lib/b.js'"}, table[0].Commands([]string{"a.js", "lib/b.js"}))
	assert.Equal(t, rules.Commands{"markdownlint 'README.md'", "prettier --write 'README.md'"}, table[1].Commands([]string{"README.md"}))
}

func TestConfig_TableWithoutAppendedFiles(t *testing.T) {
	cfg, err := Parse([]byte(listConfig), ".yaml")
	require.NoError(t, err)

	table := cfg.Table()
	require.Len(t, table, 3)
	assert.Equal(t, rules.Commands{"npm run scan", "npm run docs:generate"}, table[1].Commands([]string{"Foo.cls"}))
}

func TestParse_MappingKeepsOrder(t *testing.T) {
	content := `"z.md": echo z
"a.md": echo a
"m.md": echo m
`
	cfg, err := Parse([]byte(content), ".yaml")
	require.NoError(t, err)

	patterns := make([]string, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		patterns = append(patterns, r.Pattern)
	}
	assert.Equal(t, []string{"z.md", "a.md", "m.md"}, patterns)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ext     string
	}{
		{name: "top level list", content: "- a\n- b\n", ext: ".yaml"},
		{name: "non string command", content: "\"*.js\": [1, 2]\n", ext: ".yaml"},
		{name: "mapping command", content: "\"*.js\":\n  cmd: x\n", ext: ".yaml"},
		{name: "bad yaml", content: "rules: [\n", ext: ".yaml"},
		{name: "bad toml", content: "[[rules]\n", ext: ".toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), tt.ext)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: *DefaultConfig()},
		{name: "no rules", cfg: Config{}, wantErr: "no rules configured"},
		{
			name:    "missing pattern",
			cfg:     Config{Rules: []Rule{{Run: []string{"x"}}}},
			wantErr: "pattern is required",
		},
		{
			name:    "invalid pattern",
			cfg:     Config{Rules: []Rule{{Pattern: "re:(", Run: []string{"x"}}}},
			wantErr: "invalid pattern",
		},
		{
			name:    "no commands",
			cfg:     Config{Rules: []Rule{{Pattern: "*.js"}}},
			wantErr: "no commands configured",
		},
		{
			name:    "empty command",
			cfg:     Config{Rules: []Rule{{Pattern: "*.js", Run: []string{"eslint", " "}}}},
			wantErr: "command is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_TableMatchesDefault(t *testing.T) {
	files := []string{"a.js", "b/c.md"}
	builtin := rules.Default()
	fromConfig := DefaultConfig().Table()

	require.Len(t, fromConfig, len(builtin))
	for i := range builtin {
		assert.Equal(t, builtin[i].Pattern, fromConfig[i].Pattern)
		assert.Equal(t, builtin[i].Commands(files), fromConfig[i].Commands(files))
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".lintstagedrc.yaml", listConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Len(t, cfg.Rules, 3)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := writeConfig(t, dir, "empty.yaml", "  \n")
	_, err = LoadConfig(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := FindConfig(dir)
	assert.ErrorIs(t, err, ErrNotFound)

	writeConfig(t, dir, ".lintstagedrc.toml", tomlConfig)
	found, err := FindConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintstagedrc.toml"), found)

	writeConfig(t, dir, ".lintstagedrc.yml", mappingConfig)
	found, err = FindConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintstagedrc.yml"), found)
}

func TestResolve(t *testing.T) {
	t.Run("built-in table when no config", func(t *testing.T) {
		table, cfg, err := Resolve("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, rules.Default().Patterns(), table.Patterns())
		assert.Empty(t, cfg.Path)
	})

	t.Run("discovered config", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".lintstagedrc.yaml", "\"*.go\": gofmt -w '{file}'\n")

		table, cfg, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"*.go"}, table.Patterns())
		assert.Equal(t, rules.Commands{"gofmt -w 'main.go'"}, table[0].Commands([]string{"main.go"}))
		assert.NotEmpty(t, cfg.Path)
	})

	t.Run("explicit invalid config", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, "custom.yaml", "\"re:(\": echo\n")

		_, _, err := Resolve(path, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			data, err := DefaultConfig().Marshal(ext)
			require.NoError(t, err)

			cfg, err := Parse(data, ext)
			require.NoError(t, err)
			assert.Equal(t, DefaultConfig().Rules, cfg.Rules)
		})
	}
}
