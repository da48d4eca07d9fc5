package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ammubhave/roslyn/structure"
)

// Config captures every knob shared across the CLI and LSP entry points:
// the visibility policy per language, the registry search paths, and the
// structure cache location.
type Config struct {
	Workspace     string                                `yaml:"workspace"`
	CachePath     string                                `yaml:"cache_path"`
	RegistryPaths []string                              `yaml:"registry_paths"`
	DefaultPolicy structure.VisibilityPolicy            `yaml:"default_policy"`
	Languages     map[string]structure.VisibilityPolicy `yaml:"languages"`
}

// Default infers sensible defaults based on the current working directory.
// Every guide and outlining switch starts enabled.
func Default() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		Workspace:     cwd,
		CachePath:     filepath.Join(cwd, ".roslyn", "structure.db"),
		RegistryPaths: []string{filepath.Join(cwd, ".roslyn", "providers")},
		DefaultPolicy: structure.DefaultVisibilityPolicy(),
		Languages:     map[string]structure.VisibilityPolicy{},
	}
}

// Load reads a YAML config file over the defaults. A missing file yields the
// defaults; a malformed file is an error. Language entries replace the
// default policy wholesale for that language.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save persists the configuration for future sessions.
func Save(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("config path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Normalize ensures filesystem paths are absolute and fills missing defaults
// so later initialization never re-checks the same invariants.
func (c *Config) Normalize() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	absWorkspace, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	c.Workspace = absWorkspace
	if c.CachePath == "" {
		c.CachePath = filepath.Join(c.Workspace, ".roslyn", "structure.db")
	}
	if !filepath.IsAbs(c.CachePath) {
		c.CachePath = filepath.Join(c.Workspace, c.CachePath)
	}
	if len(c.RegistryPaths) == 0 {
		c.RegistryPaths = []string{filepath.Join(c.Workspace, ".roslyn", "providers")}
	}
	for i, path := range c.RegistryPaths {
		if !filepath.IsAbs(path) {
			c.RegistryPaths[i] = filepath.Join(c.Workspace, path)
		}
	}
	if c.Languages == nil {
		c.Languages = map[string]structure.VisibilityPolicy{}
	}
	return nil
}

// PolicyFor resolves the six visibility switches for a language. Resolution
// happens once per request; the result is passed down, never read ad hoc.
func (c Config) PolicyFor(languageID string) structure.VisibilityPolicy {
	if policy, ok := c.Languages[languageID]; ok {
		return policy
	}
	return c.DefaultPolicy
}
