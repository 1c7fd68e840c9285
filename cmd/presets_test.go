package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idanarye/yoetz/advisor"
)

func TestLoadPresets_RepoDefaults(t *testing.T) {
	// GIVEN the shipped defaults.yaml
	cfg, err := loadPresets(filepath.Join("..", "defaults.yaml"))
	require.NoError(t, err)

	// THEN the three presets are present with increasing margins
	assert.Equal(t, []string{"responsive", "sticky", "stubborn"}, cfg.Names())
	var margins []float64
	for _, name := range []string{"responsive", "sticky", "stubborn"} {
		p, err := cfg.Apply(name, advisor.DefaultPolicy())
		require.NoError(t, err)
		margins = append(margins, p.HysteresisMargin)
	}
	assert.Equal(t, []float64{0, 0.5, 2}, margins)
}

func TestLoadPresets_StrictAndValidated(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level key", "version: \"1\"\nprofiles: {}\n"},
		{"unknown preset key", "presets:\n  x:\n    margin: 1\n"},
		{"negative margin", "presets:\n  x:\n    hysteresis_margin: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "defaults.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := loadPresets(path)
			assert.Error(t, err)
		})
	}
}

func TestPresetConfig_Apply_UnknownPreset(t *testing.T) {
	cfg, err := loadPresets(filepath.Join("..", "defaults.yaml"))
	require.NoError(t, err)

	_, err = cfg.Apply("lazy", advisor.DefaultPolicy())

	assert.ErrorContains(t, err, "unknown preset")
}
