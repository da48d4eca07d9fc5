package registry

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ammubhave/roslyn/providers"
	"github.com/ammubhave/roslyn/structure"
)

// Manifest declares one pattern provider for one language. Manifests are
// plain YAML files dropped into a registry search path.
type Manifest struct {
	Name     string         `yaml:"name"`
	Language string         `yaml:"language"`
	Rules    []ManifestRule `yaml:"rules"`

	// SourcePath records where the manifest was loaded from.
	SourcePath string `yaml:"-"`
}

// ManifestRule mirrors providers.PatternRule in serializable form.
type ManifestRule struct {
	Begin        string `yaml:"begin"`
	End          string `yaml:"end,omitempty"`
	Type         string `yaml:"type"`
	Collapsible  bool   `yaml:"collapsible"`
	AutoCollapse bool   `yaml:"auto_collapse"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("manifest %s: name required", path)
	}
	if manifest.Language == "" {
		return nil, fmt.Errorf("manifest %s: language required", path)
	}
	if len(manifest.Rules) == 0 {
		return nil, fmt.Errorf("manifest %s: at least one rule required", path)
	}
	manifest.SourcePath = path
	return &manifest, nil
}

// Provider compiles the manifest into a pattern provider.
func (m *Manifest) Provider() (structure.Provider, error) {
	rules := make([]providers.PatternRule, 0, len(m.Rules))
	for i, rule := range m.Rules {
		begin, err := regexp.Compile(rule.Begin)
		if err != nil {
			return nil, fmt.Errorf("manifest %s rule %d: begin: %w", m.Name, i, err)
		}
		var end *regexp.Regexp
		if rule.End != "" {
			end, err = regexp.Compile(rule.End)
			if err != nil {
				return nil, fmt.Errorf("manifest %s rule %d: end: %w", m.Name, i, err)
			}
		}
		blockType := structure.BlockType(rule.Type)
		if blockType == "" {
			blockType = structure.BlockTypeStatement
		}
		rules = append(rules, providers.PatternRule{
			Begin:        begin,
			End:          end,
			Type:         blockType,
			Collapsible:  rule.Collapsible,
			AutoCollapse: rule.AutoCollapse,
		})
	}
	return providers.NewPatternProvider(m.Name, rules), nil
}
