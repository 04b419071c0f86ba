// Package config provides configuration discovery, parsing and validation for lint-staged.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/blairham/go-lint-staged/pkg/matching"
	"github.com/blairham/go-lint-staged/pkg/rules"
)

// ConfigFileName is the default name for the lint-staged configuration file
const ConfigFileName = ".lintstagedrc.yaml"

// SearchFileNames lists the config files looked up in the repository root, in order
var SearchFileNames = []string{
	".lintstagedrc.yaml",
	".lintstagedrc.yml",
	".lintstagedrc.json",
	".lintstagedrc.toml",
	"lint-staged.yaml",
}

// Sentinel errors
var (
	ErrNoRules      = errors.New("no rules configured")
	ErrNotFound     = errors.New("no configuration file found")
	ErrInvalidShape = errors.New("unsupported configuration layout")
)

// Config represents a lint-staged configuration file
type Config struct {
	// Path is the file the config was read from, empty for the built-in table
	Path  string `yaml:"-"     toml:"-"`
	Rules []Rule `yaml:"rules" toml:"rules"`
}

// Rule represents one pattern and the command templates run for it.
//
// Commands without a {file} or {files} placeholder get the matched files
// appended unless AppendFiles is false.
type Rule struct {
	Pattern     string   `yaml:"pattern"                toml:"pattern"`
	Run         []string `yaml:"run"                    toml:"run"`
	AppendFiles *bool    `yaml:"append_files,omitempty" toml:"append_files,omitempty"`
}

func (r Rule) appendsFiles() bool {
	return r.AppendFiles == nil || *r.AppendFiles
}

// rawConfig is decoded before normalizing run entries, which may be a string or a list
type rawConfig struct {
	Rules []rawRule `yaml:"rules" toml:"rules"`
}

type rawRule struct {
	Run         any    `yaml:"run"          toml:"run"`
	AppendFiles *bool  `yaml:"append_files" toml:"append_files"`
	Pattern     string `yaml:"pattern"      toml:"pattern"`
}

// FindConfig returns the first known config file present in dir
func FindConfig(dir string) (string, error) {
	for _, name := range SearchFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// LoadConfig loads the lint-staged configuration from file
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = ConfigFileName
	}

	if !filepath.IsAbs(configPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		configPath = filepath.Join(cwd, configPath)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("config file %s is empty", configPath)
	}

	cfg, err := Parse(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	cfg.Path = configPath

	return cfg, nil
}

// Parse decodes config data. ext selects the format: ".toml" for TOML,
// anything else is read as YAML, which also covers JSON.
func Parse(data []byte, ext string) (*Config, error) {
	if strings.EqualFold(ext, ".toml") {
		return parseTOML(data)
	}
	return parseYAML(data)
}

func parseTOML(data []byte) (*Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// parseYAML accepts either a "rules" list or a top-level ordered mapping of
// pattern to command(s)
func parseYAML(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return &Config{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidShape)
	}

	if hasKey(root, "rules") {
		var raw rawConfig
		if err := root.Decode(&raw); err != nil {
			return nil, err
		}
		return raw.normalize()
	}

	raw := rawConfig{Rules: make([]rawRule, 0, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		var run any
		if err := root.Content[i+1].Decode(&run); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", root.Content[i].Value, err)
		}
		raw.Rules = append(raw.Rules, rawRule{Pattern: root.Content[i].Value, Run: run})
	}
	return raw.normalize()
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

func (r rawConfig) normalize() (*Config, error) {
	cfg := &Config{Rules: make([]Rule, 0, len(r.Rules))}
	for i, rr := range r.Rules {
		run, err := toStrings(rr.Run)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rr.Pattern, err)
		}
		cfg.Rules = append(cfg.Rules, Rule{Pattern: rr.Pattern, Run: run, AppendFiles: rr.AppendFiles})
	}
	return cfg, nil
}

func toStrings(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: run entries must be strings, got %T", ErrInvalidShape, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: run must be a string or a list of strings, got %T", ErrInvalidShape, v)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return ErrNoRules
	}

	matcher := matching.NewMatcher()
	for i, rule := range c.Rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return fmt.Errorf("rule %d: pattern is required", i)
		}
		if _, err := matcher.Pattern(rule.Pattern); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if len(rule.Run) == 0 {
			return fmt.Errorf("rule %d (%s): no commands configured", i, rule.Pattern)
		}
		for j, cmd := range rule.Run {
			if strings.TrimSpace(cmd) == "" {
				return fmt.Errorf("rule %d (%s), command %d: command is empty", i, rule.Pattern, j)
			}
		}
	}

	return nil
}

// Table converts the configuration into a rule table
func (c *Config) Table() rules.Table {
	table := make(rules.Table, 0, len(c.Rules))
	for _, rule := range c.Rules {
		action := rules.WithFiles(rule.Run...)
		if !rule.appendsFiles() {
			action = rules.Template(rule.Run...)
		}
		table = append(table, rules.Rule{Pattern: rule.Pattern, Action: action})
	}
	return table
}

// DefaultConfig returns the configuration equivalent to rules.Default
func DefaultConfig() *Config {
	noFiles := false
	return &Config{
		Rules: []Rule{
			{Pattern: rules.ManifestPattern, Run: []string{rules.AliasSortCommand}, AppendFiles: &noFiles},
			{Pattern: rules.ClassPattern, Run: []string{rules.ScanCommand, rules.DocsCommand}, AppendFiles: &noFiles},
			{Pattern: rules.FormatPattern, Run: []string{rules.FormatCommand}},
		},
	}
}

// Marshal encodes the configuration in the format selected by ext
func (c *Config) Marshal(ext string) ([]byte, error) {
	if strings.EqualFold(ext, ".toml") {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}

// Resolve loads the rule table for a repository: the explicit config path when
// given, otherwise the first config file found in root, otherwise the built-in table.
func Resolve(explicitPath, root string) (rules.Table, *Config, error) {
	path := explicitPath
	if path == "" {
		found, err := FindConfig(root)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return rules.Default(), DefaultConfig(), nil
			}
			return nil, nil, err
		}
		path = found
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration %s: %w", cfg.Path, err)
	}
	return cfg.Table(), cfg, nil
}
