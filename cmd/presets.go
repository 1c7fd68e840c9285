package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/idanarye/yoetz/advisor"
	"gopkg.in/yaml.v3"
)

// PresetConfig represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type PresetConfig struct {
	Version string                          `yaml:"version"`
	Presets map[string]advisor.PolicyBundle `yaml:"presets"`
}

// loadPresets parses the presets file with strict field checking.
func loadPresets(path string) (*PresetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	var cfg PresetConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	for name, bundle := range cfg.Presets {
		if err := bundle.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &cfg, nil
}

// Names returns the preset names, sorted.
func (c *PresetConfig) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overlays the named preset onto base.
func (c *PresetConfig) Apply(name string, base advisor.Policy) (advisor.Policy, error) {
	bundle, ok := c.Presets[name]
	if !ok {
		return advisor.Policy{}, fmt.Errorf("unknown preset %q; valid: %v", name, c.Names())
	}
	return bundle.Policy(base)
}
