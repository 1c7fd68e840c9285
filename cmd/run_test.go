package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idanarye/yoetz/advisor/scenario"
	"github.com/idanarye/yoetz/advisor/trace"
)

const testScenario = `
version: "2"
seed: 3
ticks: 4
variants: [idle, chase]
policy:
  hysteresis_margin: 1
entities:
  - id: npc
    evaluators:
      - variant: idle
        curve: {type: constant, base: 1}
      - variant: chase
        script:
          - {tick: 2, score: 1.5}
          - {tick: 3, score: 3}
          - {tick: 4, score: .nan}
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func baseOptions(path string) runOptions {
	return runOptions{
		ScenarioPath:    path,
		DefaultsPath:    filepath.Join("..", "defaults.yaml"),
		CounterfactualK: -1,
	}
}

func TestRunScenario_PrintsFinalBehaviors(t *testing.T) {
	// GIVEN a scenario where chase overtakes idle by more than the margin on tick 3
	var out bytes.Buffer

	// WHEN run without tracing
	err := runScenario(context.Background(), baseOptions(writeScenario(t, testScenario)), &out)

	// THEN the final behavior is idle again (chase vanished on tick 4)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== Final Behaviors ===")
	assert.Regexp(t, `npc\s+: idle`, out.String())
	assert.NotContains(t, out.String(), "=== Decision Summary ===")
}

func TestRunScenario_TraceLevel_PrintsSummary(t *testing.T) {
	opts := baseOptions(writeScenario(t, testScenario))
	opts.TraceLevel = "decisions"
	var out bytes.Buffer

	require.NoError(t, runScenario(context.Background(), opts, &out))

	assert.Contains(t, out.String(), "=== Decision Summary ===")
	assert.Regexp(t, `Recorded Decisions\s+: 4`, out.String())
	assert.Regexp(t, `Dropped Suggestions\s+: 1`, out.String())
	assert.Regexp(t, `held\s+: 1`, out.String())
}

func TestRunScenario_WritesTraceExports(t *testing.T) {
	// GIVEN JSON and SQLite export paths and no explicit trace level
	dir := t.TempDir()
	opts := baseOptions(writeScenario(t, testScenario))
	opts.TraceJSONPath = filepath.Join(dir, "trace.json")
	opts.TraceDBPath = filepath.Join(dir, "trace.db")

	// WHEN the scenario runs
	require.NoError(t, runScenario(context.Background(), opts, &bytes.Buffer{}))

	// THEN both exports hold every decision under the same run ID
	f, err := os.Open(opts.TraceJSONPath)
	require.NoError(t, err)
	defer f.Close()
	dt, err := trace.ReadJSON(f)
	require.NoError(t, err)
	assert.Len(t, dt.Decisions, 4)

	store, err := trace.OpenStore(opts.TraceDBPath)
	require.NoError(t, err)
	defer store.Close()
	recs, err := store.Decisions(context.Background(), dt.RunID)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	assert.Equal(t, "switched", recs[2].Outcome)
}

func TestRunScenario_MetricsFile(t *testing.T) {
	opts := baseOptions(writeScenario(t, testScenario))
	opts.MetricsPath = filepath.Join(t.TempDir(), "metrics.txt")

	require.NoError(t, runScenario(context.Background(), opts, &bytes.Buffer{}))

	data, err := os.ReadFile(opts.MetricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `yoetz_advisor_decisions_total{outcome="switched"} 2`)
	assert.Contains(t, string(data), "yoetz_advisor_invalid_suggestions_total 1")
}

func TestResolveConfig_Layering(t *testing.T) {
	spec, err := scenario.Parse([]byte(testScenario))
	require.NoError(t, err)

	tests := []struct {
		name   string
		preset string
		margin string
		want   float64
	}{
		{"scenario only", "", "", 1},
		{"preset over scenario", "stubborn", "", 2},
		{"margin over preset", "stubborn", "0.25", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions("")
			opts.Preset = tt.preset
			opts.Margin = tt.margin
			cfg, err := resolveConfig(spec, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Policy.HysteresisMargin)
		})
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	spec, err := scenario.Parse([]byte(testScenario))
	require.NoError(t, err)

	for name, mutate := range map[string]func(*runOptions){
		"bad margin":      func(o *runOptions) { o.Margin = "-2" },
		"unknown preset":  func(o *runOptions) { o.Preset = "lazy" },
		"bad trace level": func(o *runOptions) { o.TraceLevel = "verbose" },
	} {
		t.Run(name, func(t *testing.T) {
			opts := baseOptions("")
			mutate(&opts)
			_, err := resolveConfig(spec, opts)
			assert.Error(t, err)
		})
	}
}

func TestRunScenario_SeedOverride_Reproducible(t *testing.T) {
	path := filepath.Join("..", "examples", "ambush.yaml")
	seed := int64(99)
	run := func() string {
		opts := baseOptions(path)
		opts.Seed = &seed
		opts.TraceLevel = "changes"
		opts.TraceJSONPath = filepath.Join(t.TempDir(), "trace.json")
		require.NoError(t, runScenario(context.Background(), opts, &bytes.Buffer{}))
		data, err := os.ReadFile(opts.TraceJSONPath)
		require.NoError(t, err)
		var doc struct {
			Decisions json.RawMessage `json:"decisions"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		return string(doc.Decisions)
	}

	assert.Equal(t, run(), run())
}

func TestValidateScenarios(t *testing.T) {
	good := writeScenario(t, testScenario)
	bad := writeScenario(t, "version: \"2\"\nticks: 0\n")
	var out bytes.Buffer

	require.NoError(t, validateScenarios(&out, []string{good, filepath.Join("..", "examples", "ambush.yaml")}))
	assert.Contains(t, out.String(), "OK   ")
	assert.Contains(t, out.String(), "5 entities")

	out.Reset()
	err := validateScenarios(&out, []string{good, bad})
	assert.ErrorContains(t, err, "1 of 2")
	assert.Contains(t, out.String(), "FAIL "+bad)
}
